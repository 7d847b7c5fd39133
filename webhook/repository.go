package webhook

import (
	"context"
	"time"
)

/* Small, focused interfaces following "The Go Way"
 * Interfaces abstract behavior, not things
 * Written for users of the API, not just for testing
 */

// Reader provides read operations for webhook records
type Reader interface {
	/* Context is always the first parameter in functions that do I/O
	 * This allows for cancellation, timeouts, and shared values
	 */
	Get(ctx context.Context, id string) (Record, error)
	// Recent returns the newest records first, bounded by limit
	Recent(ctx context.Context, limit int) ([]Record, error)
}

// Writer provides write operations for webhook records
type Writer interface {
	/* Save persists a new record and returns its ID
	 * Records are append/update only; nothing is ever deleted here
	 */
	Save(ctx context.Context, record Record) (string, error)
	/* UpdateStatus moves a record through its state machine and attaches
	 * the outcome of the attempt. Terminal statuses set ProcessedAt.
	 */
	UpdateStatus(ctx context.Context, id string, status Status, outcome *Outcome) error
	// IncrementRetry bumps the retry counter and returns the new count
	IncrementRetry(ctx context.Context, id string) (int, error)
}

// RetryLister selects records eligible for a retry sweep
type RetryLister interface {
	/* ListFailed returns failed records oldest-first (FIFO), excluding
	 * records whose retry count has reached maxRetries
	 */
	ListFailed(ctx context.Context, limit, maxRetries int) ([]Record, error)
}

// StatsReader provides aggregates derived from record history
type StatsReader interface {
	// Rollup recomputes the daily aggregate for (source, eventType, day)
	Rollup(ctx context.Context, source, eventType string, day time.Time) (DailyStatistic, error)
	// SourceSummary counts records for one source created at or after since
	SourceSummary(ctx context.Context, source string, since time.Time) (SourceSummary, error)
	// StatusCounts returns record counts grouped by status name
	StatusCounts(ctx context.Context) (map[string]int64, error)
	// ProcessedSince counts successfully processed records in a time window
	ProcessedSince(ctx context.Context, since time.Time) (int64, error)
}

/* Interface composition - combining small interfaces into larger ones
 * This is preferred over large monolithic interfaces
 */
type Repository interface {
	Reader
	Writer
	RetryLister
	StatsReader
	Close(ctx context.Context) error
}
