package auth

import "github.com/etu51184/jobs-etudiants-backend/internal/token"

// CanDeleteJob reports whether the caller may delete a job owned by ownerID:
// the owner themselves, or any admin. Callers must check that the job exists
// before consulting this policy, so a missing job surfaces as 404 rather
// than 403.
func CanDeleteJob(claims *token.Claims, ownerID int64) bool {
	return claims.UserID == ownerID || claims.IsAdmin()
}

// CanManageUsers reports whether the caller may list or delete users.
// Admin only. An admin deleting their own account is allowed.
func CanManageUsers(claims *token.Claims) bool {
	return claims.IsAdmin()
}

// CanCreateJob reports whether the caller may post a job. Any authenticated
// caller qualifies, whatever their role.
func CanCreateJob(claims *token.Claims) bool {
	return claims != nil
}
