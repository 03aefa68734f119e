// Package users implements registration, login and the admin-only user
// management endpoints.
//
// Routes:
//
//	POST   /api/users/register → create an account (role always 'user')
//	POST   /api/users/login    → verify credentials, issue a session token
//	GET    /api/users          → list accounts (admin)
//	DELETE /api/users/{id}     → delete an account (admin)
package users

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/etu51184/jobs-etudiants-backend/internal/auth"
	"github.com/etu51184/jobs-etudiants-backend/internal/httpx"
	"github.com/etu51184/jobs-etudiants-backend/internal/token"
)

// bcryptCost matches the work factor used when the existing password hashes
// were produced; changing it would not invalidate them but keeps new and old
// hashes comparable in cost.
const bcryptCost = 10

// User is the public JSON shape of an account. The password hash never
// leaves the store layer.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Handler holds shared dependencies for the user routes.
type Handler struct {
	pool   *pgxpool.Pool
	tokens *token.Service
	auth   *auth.Authenticator
}

// NewHandler returns a configured Handler.
func NewHandler(pool *pgxpool.Pool, tokens *token.Service, a *auth.Authenticator) *Handler {
	return &Handler{pool: pool, tokens: tokens, auth: a}
}

// RegisterRoutes mounts all user routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/users", h.handleUsers)
	mux.HandleFunc("/api/users/", h.handleUserByPath)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

// handleUsers handles GET /api/users.
func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.list(w, r)
}

// handleUserByPath handles POST /api/users/register|login and
// DELETE /api/users/{id}.
func (h *Handler) handleUserByPath(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		httpx.Error(w, "invalid path", http.StatusNotFound)
		return
	}

	switch parts[2] {
	case "register":
		if r.Method != http.MethodPost {
			httpx.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.register(w, r)
	case "login":
		if r.Method != http.MethodPost {
			httpx.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.login(w, r)
	default:
		if r.Method != http.MethodDelete {
			httpx.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.delete(w, r, parts[2])
	}
}

// ─── Individual handlers ──────────────────────────────────────────────────────

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// register creates an account. The role is always 'user': there is no
// self-service path to admin.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if body.Email == "" || body.Password == "" {
		httpx.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcryptCost)
	if err != nil {
		log.Printf("[users] register hash error: %v", err)
		httpx.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	var u User
	err = h.pool.QueryRow(r.Context(),
		`INSERT INTO users (email, password_hash, role)
		 VALUES ($1, $2, 'user')
		 RETURNING id, email, role`,
		body.Email, string(hash),
	).Scan(&u.ID, &u.Email, &u.Role)
	if err != nil {
		// Duplicate email lands here too; the client gets the same generic
		// answer as any other store failure.
		log.Printf("[users] register insert error: %v", err)
		httpx.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	httpx.JSON(w, http.StatusCreated, u)
}

// login verifies credentials against the stored hash and issues a token
// carrying {id, role}.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if body.Email == "" || body.Password == "" {
		httpx.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	var (
		u    User
		hash string
	)
	err := h.pool.QueryRow(r.Context(),
		`SELECT id, email, password_hash, role FROM users WHERE email = $1`,
		body.Email,
	).Scan(&u.ID, &u.Email, &hash, &u.Role)
	if err != nil {
		httpx.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(body.Password)); err != nil {
		httpx.Error(w, "invalid password", http.StatusUnauthorized)
		return
	}

	signed, err := h.tokens.Sign(u.ID, u.Role)
	if err != nil {
		log.Printf("[users] login sign error: %v", err)
		httpx.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{
		"token": signed,
		"email": u.Email,
		"role":  u.Role,
	})
}

// list returns every account. Admin only.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	claims, err := h.auth.Authenticate(r)
	if err != nil {
		httpx.Error(w, err.Error(), auth.StatusFor(err))
		return
	}
	if !auth.CanManageUsers(claims) {
		httpx.Error(w, "admin only", http.StatusForbidden)
		return
	}

	rows, err := h.pool.Query(r.Context(), `SELECT id, email, role FROM users ORDER BY id`)
	if err != nil {
		log.Printf("[users] list query error: %v", err)
		httpx.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	list := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Role); err != nil {
			log.Printf("[users] list scan error: %v", err)
			httpx.Error(w, "database error", http.StatusInternalServerError)
			return
		}
		list = append(list, u)
	}

	httpx.JSON(w, http.StatusOK, list)
}

// delete removes an account. Admin only; an admin removing their own account
// is not special-cased.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request, rawID string) {
	claims, err := h.auth.Authenticate(r)
	if err != nil {
		httpx.Error(w, err.Error(), auth.StatusFor(err))
		return
	}
	if !auth.CanManageUsers(claims) {
		httpx.Error(w, "admin only", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		httpx.Error(w, "user not found", http.StatusNotFound)
		return
	}

	if _, err := h.pool.Exec(r.Context(), `DELETE FROM users WHERE id = $1`, id); err != nil {
		log.Printf("[users] delete error: %v", err)
		httpx.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
