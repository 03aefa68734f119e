package jobs_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/etu51184/jobs-etudiants-backend/internal/auth"
	"github.com/etu51184/jobs-etudiants-backend/internal/jobs"
	"github.com/etu51184/jobs-etudiants-backend/internal/token"
)

// newMux builds the job routes with no database behind them. The cases below
// must all be rejected before any statement would run.
func newMux(t *testing.T) (*http.ServeMux, *token.Service) {
	t.Helper()
	tokens := token.NewService("test-secret")
	h := jobs.NewHandler(nil, nil, auth.NewAuthenticator(tokens))
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux, tokens
}

func do(mux *http.ServeMux, method, path, bearer, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if bearer != "" {
		r.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func TestCreate_MissingToken(t *testing.T) {
	mux, _ := newMux(t)
	w := do(mux, http.MethodPost, "/api/jobs", "", `{"contractType":"Intern"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestCreate_InvalidToken(t *testing.T) {
	mux, _ := newMux(t)
	w := do(mux, http.MethodPost, "/api/jobs", "bogus", `{"contractType":"Intern"}`)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestCreate_MissingContractType(t *testing.T) {
	mux, tokens := newMux(t)
	signed, err := tokens.Sign(1, "user")
	if err != nil {
		t.Fatalf("Sign returned unexpected error: %v", err)
	}

	// No insert may run: the handler has no pool, so reaching the store
	// would panic instead of returning 400.
	w := do(mux, http.MethodPost, "/api/jobs", signed, `{"title":"Serveur week-end"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreate_InvalidJSONBody(t *testing.T) {
	mux, tokens := newMux(t)
	signed, err := tokens.Sign(1, "user")
	if err != nil {
		t.Fatalf("Sign returned unexpected error: %v", err)
	}

	w := do(mux, http.MethodPost, "/api/jobs", signed, `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGet_NonNumericID(t *testing.T) {
	mux, _ := newMux(t)
	w := do(mux, http.MethodGet, "/api/jobs/abc", "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestJobs_MethodNotAllowed(t *testing.T) {
	mux, _ := newMux(t)
	w := do(mux, http.MethodPut, "/api/jobs", "", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestDelete_MissingToken(t *testing.T) {
	mux, _ := newMux(t)
	w := do(mux, http.MethodDelete, "/api/jobs/7", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestListMine_MissingToken(t *testing.T) {
	mux, _ := newMux(t)
	w := do(mux, http.MethodGet, "/api/jobs/me", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
