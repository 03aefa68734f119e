// Package favorites implements per-user favorite listings.
//
// Routes (all require authentication):
//
//	GET    /api/favorites         → caller's favorites with job summary
//	GET    /api/favorites/{jobId} → membership probe
//	POST   /api/favorites/{jobId} → add (idempotent)
//	DELETE /api/favorites/{jobId} → remove (no-op when absent)
package favorites

import (
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/etu51184/jobs-etudiants-backend/internal/auth"
	"github.com/etu51184/jobs-etudiants-backend/internal/httpx"
)

// Favorite is a favorite row joined with its job summary.
type Favorite struct {
	JobID        int64     `json:"jobId"`
	Title        string    `json:"title"`
	Location     string    `json:"location"`
	ContractType string    `json:"contractType"`
	PostedAt     time.Time `json:"postedAt"`
	IsFavorite   bool      `json:"isFavorite"`
}

// Handler holds shared dependencies for the favorites routes.
type Handler struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	auth *auth.Authenticator
}

// NewHandler returns a configured Handler.
func NewHandler(pool *pgxpool.Pool, rdb *redis.Client, a *auth.Authenticator) *Handler {
	return &Handler{pool: pool, rdb: rdb, auth: a}
}

// RegisterRoutes mounts all favorites routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/favorites", h.handleFavorites)
	mux.HandleFunc("/api/favorites/", h.handleFavoriteByJob)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

// handleFavorites handles GET /api/favorites.
func (h *Handler) handleFavorites(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.list(w, r)
}

// handleFavoriteByJob handles GET|POST|DELETE /api/favorites/{jobId}.
func (h *Handler) handleFavoriteByJob(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		httpx.Error(w, "invalid path", http.StatusNotFound)
		return
	}

	jobID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		httpx.Error(w, "invalid job id", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.probe(w, r, jobID)
	case http.MethodPost:
		h.add(w, r, jobID)
	case http.MethodDelete:
		h.remove(w, r, jobID)
	default:
		httpx.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ─── Individual handlers ──────────────────────────────────────────────────────

// list returns the caller's favorites joined with job summaries, newest
// favorite first. Orphaned rows (job deleted since) drop out of the join.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	claims, err := h.auth.Authenticate(r)
	if err != nil {
		httpx.Error(w, err.Error(), auth.StatusFor(err))
		return
	}

	rows, err := h.pool.Query(r.Context(),
		`SELECT f.job_id, j.title, j.location, j.contract_type, j.posted_at
		 FROM favorites f
		 JOIN jobs j ON j.id = f.job_id
		 WHERE f.user_id = $1
		 ORDER BY f.created_at DESC`,
		claims.UserID,
	)
	if err != nil {
		log.Printf("[favorites] list query error: %v", err)
		httpx.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	list := make([]Favorite, 0)
	for rows.Next() {
		f := Favorite{IsFavorite: true}
		if err := rows.Scan(&f.JobID, &f.Title, &f.Location, &f.ContractType, &f.PostedAt); err != nil {
			log.Printf("[favorites] list scan error: %v", err)
			httpx.Error(w, "database error", http.StatusInternalServerError)
			return
		}
		list = append(list, f)
	}

	httpx.JSON(w, http.StatusOK, list)
}

// probe reports whether the job is already among the caller's favorites.
func (h *Handler) probe(w http.ResponseWriter, r *http.Request, jobID int64) {
	claims, err := h.auth.Authenticate(r)
	if err != nil {
		httpx.Error(w, err.Error(), auth.StatusFor(err))
		return
	}

	var exists bool
	err = h.pool.QueryRow(r.Context(),
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND job_id = $2)`,
		claims.UserID, jobID,
	).Scan(&exists)
	if err != nil {
		log.Printf("[favorites] probe error: %v", err)
		httpx.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]bool{"isFavorite": exists})
}

// add inserts the (user, job) pair. Insert-or-ignore: a duplicate is a
// success with no new row, so the same favorite can never exist twice.
func (h *Handler) add(w http.ResponseWriter, r *http.Request, jobID int64) {
	claims, err := h.auth.Authenticate(r)
	if err != nil {
		httpx.Error(w, err.Error(), auth.StatusFor(err))
		return
	}

	tag, err := h.pool.Exec(r.Context(),
		`INSERT INTO favorites (user_id, job_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		claims.UserID, jobID,
	)
	if err != nil {
		log.Printf("[favorites] add error: %v", err)
		httpx.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	if tag.RowsAffected() > 0 {
		event, _ := json.Marshal(map[string]string{
			"type":   "EVENT_FAVORITE_ADDED",
			"jobId":  strconv.FormatInt(jobID, 10),
			"userId": strconv.FormatInt(claims.UserID, 10),
		})
		if err := h.rdb.Publish(r.Context(), "EVENT_FAVORITE_ADDED", event).Err(); err != nil {
			slog.Warn("publish EVENT_FAVORITE_ADDED failed", "err", err)
		}
	}

	httpx.JSON(w, http.StatusCreated, map[string]string{"message": "added to favorites"})
}

// remove deletes the pair. Removing a favorite that does not exist is a
// success with zero rows affected.
func (h *Handler) remove(w http.ResponseWriter, r *http.Request, jobID int64) {
	claims, err := h.auth.Authenticate(r)
	if err != nil {
		httpx.Error(w, err.Error(), auth.StatusFor(err))
		return
	}

	if _, err := h.pool.Exec(r.Context(),
		`DELETE FROM favorites WHERE user_id = $1 AND job_id = $2`,
		claims.UserID, jobID,
	); err != nil {
		log.Printf("[favorites] remove error: %v", err)
		httpx.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{"message": "removed from favorites"})
}
