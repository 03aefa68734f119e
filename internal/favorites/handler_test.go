package favorites_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etu51184/jobs-etudiants-backend/internal/auth"
	"github.com/etu51184/jobs-etudiants-backend/internal/favorites"
	"github.com/etu51184/jobs-etudiants-backend/internal/token"
)

func newMux(t *testing.T) *http.ServeMux {
	t.Helper()
	tokens := token.NewService("test-secret")
	h := favorites.NewHandler(nil, nil, auth.NewAuthenticator(tokens))
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func do(mux *http.ServeMux, method, path, authorization string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		r.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func TestFavorites_RequireToken(t *testing.T) {
	mux := newMux(t)
	cases := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/favorites"},
		{http.MethodGet, "/api/favorites/7"},
		{http.MethodPost, "/api/favorites/7"},
		{http.MethodDelete, "/api/favorites/7"},
	}
	for _, c := range cases {
		if w := do(mux, c.method, c.path, ""); w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", c.method, c.path, w.Code)
		}
	}
}

func TestFavorites_InvalidToken(t *testing.T) {
	mux := newMux(t)
	w := do(mux, http.MethodPost, "/api/favorites/7", "Bearer nope")
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestFavorites_NonNumericJobID(t *testing.T) {
	mux := newMux(t)
	w := do(mux, http.MethodPost, "/api/favorites/abc", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestFavorites_MethodNotAllowed(t *testing.T) {
	mux := newMux(t)
	w := do(mux, http.MethodPut, "/api/favorites/7", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
