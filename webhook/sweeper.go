package webhook

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

/* Sweeper re-submits failed records up to their bounded retry count
 * Only one sweep is ever active: a new sweep must not start while a previous
 * one is running, which prevents double-processing the same failed record
 */
type Sweeper struct {
	Service    UseCase
	Repo       RetryLister
	Limit      int
	MaxRetries int
	Logger     *slog.Logger

	running atomic.Bool
}

// NewSweeper creates a sweeper that retries up to limit records per sweep
func NewSweeper(service UseCase, repo RetryLister, limit, maxRetries int, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		Service:    service,
		Repo:       repo,
		Limit:      limit,
		MaxRetries: maxRetries,
		Logger:     logger,
	}
}

/* RunOnce performs a single sweep and returns the number of records that
 * were successfully reprocessed. Returns ErrSweepRunning when a sweep is
 * already active. Records are processed independently: a failure on one
 * does not stop the sweep.
 */
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	if !s.running.CompareAndSwap(false, true) {
		return 0, ErrSweepRunning
	}
	defer s.running.Store(false)

	failed, err := s.Repo.ListFailed(ctx, s.Limit, s.MaxRetries)
	if err != nil {
		return 0, &PersistenceError{Op: "list failed", Err: err}
	}

	reprocessed := 0
	for _, record := range failed {
		result, err := s.Service.Retry(ctx, record)
		if err != nil {
			s.Logger.Error("retrying record", "webhook_id", record.ID, "error", err)
			continue
		}
		if result.Success {
			reprocessed++
		}
	}

	if len(failed) > 0 {
		s.Logger.Info("retry sweep finished",
			"eligible", len(failed), "reprocessed", reprocessed)
	}
	return reprocessed, nil
}

// Run sweeps on the given interval until the context is cancelled
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && err != ErrSweepRunning {
				s.Logger.Error("retry sweep", "error", err)
			}
		}
	}
}
