// Package jobs implements the job-listing endpoints.
//
// Routes:
//
//	GET    /api/jobs           → paginated, filtered listing (public)
//	GET    /api/jobs/{id}      → single listing (public)
//	GET    /api/jobs/me        → caller's own listings
//	POST   /api/jobs           → create a listing
//	DELETE /api/jobs/{id}      → delete a listing (owner or admin)
package jobs

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

// Job is the JSON shape of a listing.
type Job struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	ContractType string          `json:"contractType"`
	Location     string          `json:"location"`
	Schedule     string          `json:"schedule"`
	Days         string          `json:"days"`
	Contact      string          `json:"contact"`
	CreatedBy    int64           `json:"createdBy"`
	FullTime     bool            `json:"fullTime"`
	Duration     string          `json:"duration"`
	StartDate    string          `json:"startDate"`
	EndDate      string          `json:"endDate"`
	Salary       string          `json:"salary"`
	CustomFields json.RawMessage `json:"customFields,omitempty"`
	PostedAt     time.Time       `json:"postedAt"`
}

// ListResponse is the paginated listing envelope.
type ListResponse struct {
	Jobs  []Job `json:"jobs"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Total int   `json:"total"`
}

// Handler holds shared dependencies for the job routes.
type Handler struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	auth *auth.Authenticator
}

// NewHandler returns a configured Handler.
func NewHandler(pool *pgxpool.Pool, rdb *redis.Client, a *auth.Authenticator) *Handler {
	return &Handler{pool: pool, rdb: rdb, auth: a}
}

// RegisterRoutes mounts all job routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/jobs", h.handleJobs)
	mux.HandleFunc("/api/jobs/", h.handleJobByPath)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

// handleJobs handles GET /api/jobs and POST /api/jobs.
func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		httpx.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleJobByPath handles GET /api/jobs/me and GET|DELETE /api/jobs/{id}.
func (h *Handler) handleJobByPath(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		httpx.Error(w, "invalid path", http.StatusNotFound)
		return
	}

	if parts[2] == "me" {
		if r.Method != http.MethodGet {
			httpx.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.listMine(w, r)
		return
	}

	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		httpx.Error(w, "job not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		httpx.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ─── Individual handlers ──────────────────────────────────────────────────────

// list is the paginated, filtered listing. Both statements share the same
// WHERE clause and parameter list; only the page fetch appends LIMIT/OFFSET.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p := ParseListParams(r.URL.Query())

	countSQL, countArgs := p.CountQuery()
	var total int
	if err := h.pool.QueryRow(r.Context(), countSQL, countArgs...).Scan(&total); err != nil {
		log.Printf("[jobs] list count error: %v", err)
		httpx.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	selectSQL, selectArgs := p.SelectQuery()
	rows, err := h.pool.Query(r.Context(), selectSQL, selectArgs...)
	if err != nil {
		log.Printf("[jobs] list query error: %v", err)
		httpx.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	list := make([]Job, 0)
	for rows.Next() {
		j, err := scanJob(rows.Scan)
		if err != nil {
			log.Printf("[jobs] list scan error: %v", err)
			httpx.Error(w, "database error", http.StatusInternalServerError)
			return
		}
		list = append(list, j)
	}

	httpx.JSON(w, http.StatusOK, ListResponse{
		Jobs:  list,
		Page:  p.Page,
		Pages: Pages(total, p.Limit),
		Total: total,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id int64) {
	j, err := scanJob(h.pool.QueryRow(r.Context(),
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id).Scan)
	if err != nil {
		httpx.Error(w, "job not found", http.StatusNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, j)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	claims, err := h.auth.Authenticate(r)
	if err != nil {
		httpx.Error(w, err.Error(), auth.StatusFor(err))
		return
	}

	rows, err := h.pool.Query(r.Context(),
		`SELECT `+jobColumns+` FROM jobs WHERE created_by = $1 ORDER BY id DESC`,
		claims.UserID,
	)
	if err != nil {
		log.Printf("[jobs] listMine query error: %v", err)
		httpx.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	list := make([]Job, 0)
	for rows.Next() {
		j, err := scanJob(rows.Scan)
		if err != nil {
			log.Printf("[jobs] listMine scan error: %v", err)
			httpx.Error(w, "database error", http.StatusInternalServerError)
			return
		}
		list = append(list, j)
	}

	httpx.JSON(w, http.StatusOK, list)
}

// createRequest accepts both contractType and the legacy contract_type key.
// Ownership is never taken from the body: created_by always comes from the
// verified claims.
type createRequest struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	ContractType   string          `json:"contractType"`
	ContractTypeSC string          `json:"contract_type"`
	Location       string          `json:"location"`
	Schedule       string          `json:"schedule"`
	Days           string          `json:"days"`
	Contact        string          `json:"contact"`
	FullTime       bool            `json:"fullTime"`
	Duration       string          `json:"duration"`
	StartDate      string          `json:"startDate"`
	EndDate        string          `json:"endDate"`
	Salary         string          `json:"salary"`
	CustomFields   json.RawMessage `json:"customFields"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	claims, err := h.auth.Authenticate(r)
	if err != nil {
		httpx.Error(w, err.Error(), auth.StatusFor(err))
		return
	}
	if !auth.CanCreateJob(claims) {
		httpx.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var body createRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	contractType := body.ContractType
	if contractType == "" {
		contractType = body.ContractTypeSC
	}
	if contractType == "" {
		httpx.Error(w, "contract type is required", http.StatusBadRequest)
		return
	}

	j, err := scanJob(h.pool.QueryRow(r.Context(),
		`INSERT INTO jobs
		   (title, description, contract_type, location, schedule, days, contact,
		    created_by, full_time, duration, start_date, end_date, salary, custom_fields)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		 RETURNING `+jobColumns,
		body.Title, body.Description, contractType, body.Location, body.Schedule,
		body.Days, body.Contact, claims.UserID, body.FullTime, body.Duration,
		body.StartDate, body.EndDate, body.Salary, body.CustomFields,
	).Scan)
	if err != nil {
		log.Printf("[jobs] create insert error: %v", err)
		httpx.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	h.publish(r, "EVENT_JOB_POSTED", map[string]string{
		"jobId":  strconv.FormatInt(j.ID, 10),
		"userId": strconv.FormatInt(claims.UserID, 10),
	})

	httpx.JSON(w, http.StatusCreated, j)
}

// delete removes a listing. Existence is checked before ownership so a
// missing job is always 404, whoever asks. The check and the delete are two
// statements; if a concurrent delete wins the race, the second statement
// simply matches nothing and we answer 404.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	claims, err := h.auth.Authenticate(r)
	if err != nil {
		httpx.Error(w, err.Error(), auth.StatusFor(err))
		return
	}

	var ownerID int64
	if err := h.pool.QueryRow(r.Context(),
		`SELECT created_by FROM jobs WHERE id = $1`, id).Scan(&ownerID); err != nil {
		httpx.Error(w, "job not found", http.StatusNotFound)
		return
	}

	if !auth.CanDeleteJob(claims, ownerID) {
		httpx.Error(w, "not allowed to delete this listing", http.StatusForbidden)
		return
	}

	j, err := scanJob(h.pool.QueryRow(r.Context(),
		`DELETE FROM jobs WHERE id = $1 RETURNING `+jobColumns, id).Scan)
	if err != nil {
		httpx.Error(w, "job not found", http.StatusNotFound)
		return
	}

	h.publish(r, "EVENT_JOB_DELETED", map[string]string{
		"jobId":  strconv.FormatInt(id, 10),
		"userId": strconv.FormatInt(claims.UserID, 10),
	})

	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "deleted": j})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// scanJob reads one full job row through the given Scan function.
func scanJob(scan func(dest ...any) error) (Job, error) {
	var j Job
	err := scan(
		&j.ID, &j.Title, &j.Description, &j.ContractType, &j.Location,
		&j.Schedule, &j.Days, &j.Contact, &j.CreatedBy, &j.FullTime,
		&j.Duration, &j.StartDate, &j.EndDate, &j.Salary, &j.CustomFields,
		&j.PostedAt,
	)
	return j, err
}

// publish sends a domain event to Redis. Failures are logged, never fatal.
func (h *Handler) publish(r *http.Request, channel string, payload map[string]string) {
	payload["type"] = channel
	event, _ := json.Marshal(payload)
	if err := h.rdb.Publish(r.Context(), channel, event).Err(); err != nil {
		slog.Warn("publish failed", "channel", channel, "err", err)
	}
}
