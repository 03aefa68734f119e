package favorites

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

// Sweeper periodically prunes favorites whose job no longer exists. Job
// deletion leaves favorite rows behind on purpose (no foreign key, no
// cascade); the join in the list endpoint hides them immediately, and this
// sweep reclaims them in the background.
type Sweeper struct {
	cron *cron.Cron
	pool *pgxpool.Pool
	spec string // cron spec, e.g. "@every 24h"
}

// NewSweeper creates a Sweeper that fires every intervalHours hours.
func NewSweeper(pool *pgxpool.Pool, intervalHours int) *Sweeper {
	return &Sweeper{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		pool: pool,
		spec: fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one sweep
// immediately so a restart never postpones cleanup by a full interval.
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[sweeper] Cron started — spec: %s", s.spec)

	go s.runSweep(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	log.Println("[sweeper] Cron stopped")
}

// runSweep deletes every favorite whose job id no longer resolves.
func (s *Sweeper) runSweep(ctx context.Context) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM favorites f
		 WHERE NOT EXISTS (SELECT 1 FROM jobs j WHERE j.id = f.job_id)`,
	)
	if err != nil {
		log.Printf("[sweeper] sweep error: %v", err)
		return
	}

	if n := tag.RowsAffected(); n > 0 {
		log.Printf("[sweeper] Pruned %d orphaned favorite(s)", n)
	}
}
