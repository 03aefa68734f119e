// Package auth resolves the caller identity from a request and decides what
// that caller may do. Authentication (is there a valid token?) and
// authorization (may this caller act?) are kept as separate steps: handlers
// authenticate first, check existence second, and only then apply policy.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/etu51184/jobs-etudiants-backend/internal/token"
)

// Sentinel errors returned by Authenticate. A missing token maps to 401, a
// token that is present but fails verification maps to 403.
var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Authenticator extracts and verifies bearer tokens.
type Authenticator struct {
	tokens *token.Service
}

// NewAuthenticator returns an Authenticator backed by the given token service.
func NewAuthenticator(tokens *token.Service) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Authenticate reads the Authorization header and returns the verified
// claims. Returns ErrMissingToken when no bearer token is present and
// ErrInvalidToken when one is present but does not verify.
func (a *Authenticator) Authenticate(r *http.Request) (*token.Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, ErrMissingToken
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, ErrMissingToken
	}

	claims, err := a.tokens.Verify(raw)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// StatusFor maps an Authenticate error to its HTTP status code.
func StatusFor(err error) int {
	if errors.Is(err, ErrMissingToken) {
		return http.StatusUnauthorized
	}
	return http.StatusForbidden
}
