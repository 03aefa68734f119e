// jobs-etudiants-backend
//
// Job-listing board API for student jobs:
//   - register/login with hashed credentials and signed session tokens
//   - browse/search/paginate listings, post and delete them (owner or admin)
//   - per-user favorites with idempotent add/remove
//
// Publishes domain events (job posted/deleted, favorite added) to Redis.
// A cron sweeper prunes favorites left behind by deleted jobs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/etu51184/jobs-etudiants-backend/internal/auth"
	"github.com/etu51184/jobs-etudiants-backend/internal/config"
	"github.com/etu51184/jobs-etudiants-backend/internal/db"
	"github.com/etu51184/jobs-etudiants-backend/internal/favorites"
	"github.com/etu51184/jobs-etudiants-backend/internal/jobs"
	"github.com/etu51184/jobs-etudiants-backend/internal/token"
	"github.com/etu51184/jobs-etudiants-backend/internal/users"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[api] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[api] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[api] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[api] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[api] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[api] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[api] Redis connected ✓")

	// ── Routes ───────────────────────────────────────────────────────────────
	tokens := token.NewService(cfg.JWTSecret)
	authenticator := auth.NewAuthenticator(tokens)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/", notFoundHandler)

	users.NewHandler(pool, tokens, authenticator).RegisterRoutes(mux)
	jobs.NewHandler(pool, rdb, authenticator).RegisterRoutes(mux)
	favorites.NewHandler(pool, rdb, authenticator).RegisterRoutes(mux)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	// ── Favorites sweeper ────────────────────────────────────────────────────
	sweeper := favorites.NewSweeper(pool, cfg.SweepIntervalHours)
	if err := sweeper.Start(ctx); err != nil {
		log.Fatalf("[api] Sweeper: %v", err)
	}
	defer sweeper.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      corsMiddleware.Handler(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[api] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[api] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[api] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[api] Shutdown error: %v", err)
	}
	log.Println("[api] Stopped.")
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{"message": "route not found"})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "jobs-etudiants-backend",
		"version": version,
	})
}
