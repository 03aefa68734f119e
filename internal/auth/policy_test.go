package auth_test

import (
	"testing"

	"github.com/etu51184/jobs-etudiants-backend/internal/auth"
	"github.com/etu51184/jobs-etudiants-backend/internal/token"
)

func claims(id int64, role string) *token.Claims {
	return &token.Claims{UserID: id, Role: role}
}

// ── CanDeleteJob ───────────────────────────────────────────────────────────

func TestCanDeleteJob(t *testing.T) {
	cases := []struct {
		name    string
		caller  *token.Claims
		ownerID int64
		want    bool
	}{
		{"owner may delete own job", claims(5, "user"), 5, true},
		{"other user may not delete", claims(6, "user"), 5, false},
		{"admin may delete any job", claims(6, "admin"), 5, true},
		{"admin may delete own job", claims(5, "admin"), 5, true},
		{"unknown role is not admin", claims(6, "moderator"), 5, false},
	}
	for _, c := range cases {
		if got := auth.CanDeleteJob(c.caller, c.ownerID); got != c.want {
			t.Errorf("%s: CanDeleteJob(id=%d role=%s, owner=%d) = %v, want %v",
				c.name, c.caller.UserID, c.caller.Role, c.ownerID, got, c.want)
		}
	}
}

// ── CanManageUsers ─────────────────────────────────────────────────────────

func TestCanManageUsers(t *testing.T) {
	if auth.CanManageUsers(claims(1, "user")) {
		t.Error("CanManageUsers(user) should be false")
	}
	if !auth.CanManageUsers(claims(1, "admin")) {
		t.Error("CanManageUsers(admin) should be true")
	}
	if auth.CanManageUsers(claims(1, "")) {
		t.Error("CanManageUsers(empty role) should be false")
	}
}

// ── CanCreateJob ───────────────────────────────────────────────────────────

func TestCanCreateJob(t *testing.T) {
	for _, role := range []string{"user", "admin"} {
		if !auth.CanCreateJob(claims(1, role)) {
			t.Errorf("CanCreateJob(%s) should be true", role)
		}
	}
	if auth.CanCreateJob(nil) {
		t.Error("CanCreateJob(nil) should be false")
	}
}
