package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/entegrahub/webhook-gateway/webhook"
	_ "github.com/lib/pq" // PostgreSQL driver
)

/* PostgreSQL implementation of webhook.Repository
 * One append/update table keyed by record id, indexed by (source, status)
 * and (created_at); daily_statistics is a separate upsert cache keyed by
 * (source, event_type, stat_date) that is always recomputed from
 * webhook_records, never trusted as a source of truth
 * Schema is managed by migrations (cmd/migrate), never at request time
 */

type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new PostgreSQL repository with the default pool (25, 5, 5 min)
func NewRepository(connectionString string) (*Repository, error) {
	return NewRepositoryWithPoolConfig(connectionString, 25, 5, 5)
}

// NewRepositoryWithPoolConfig creates a new PostgreSQL repository with a custom pool
func NewRepositoryWithPoolConfig(connectionString string, maxOpenConns, maxIdleConns, maxLifeMinutes int) (*Repository, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if maxLifeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(maxLifeMinutes) * time.Minute)
	}

	return &Repository{
		DB: db,
	}, nil
}

// Save persists a new record
func (r *Repository) Save(ctx context.Context, rec webhook.Record) (string, error) {
	headersJSON, err := json.Marshal(rec.Headers)
	if err != nil {
		return "", fmt.Errorf("marshaling headers: %w", err)
	}

	var responseJSON []byte
	if rec.Response != nil {
		responseJSON, err = json.Marshal(rec.Response)
		if err != nil {
			return "", fmt.Errorf("marshaling response: %w", err)
		}
	}

	query := `INSERT INTO webhook_records
		(id, source, event_type, payload, headers, status, response, retry_count, max_retries, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.DB.ExecContext(ctx, query,
		rec.ID,
		rec.Source,
		rec.EventType,
		rec.RawPayload,
		headersJSON,
		rec.Status.String(),
		nullableJSON(responseJSON),
		rec.RetryCount,
		rec.MaxRetries,
		rec.CreatedAt,
		nullableTime(rec.ProcessedAt),
	)
	if err != nil {
		return "", fmt.Errorf("inserting record: %w", err)
	}

	return rec.ID, nil
}

// Get retrieves a record by ID
func (r *Repository) Get(ctx context.Context, id string) (webhook.Record, error) {
	query := `SELECT id, source, event_type, payload, headers, status, response, retry_count, max_retries, created_at, processed_at
		FROM webhook_records WHERE id = $1`

	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return webhook.Record{}, webhook.ErrNotFound
	}
	if err != nil {
		return webhook.Record{}, fmt.Errorf("selecting record: %w", err)
	}
	return rec, nil
}

// UpdateStatus moves a record through its state machine
func (r *Repository) UpdateStatus(ctx context.Context, id string, status webhook.Status, outcome *webhook.Outcome) error {
	var responseJSON []byte
	if outcome != nil {
		var err error
		responseJSON, err = json.Marshal(outcome)
		if err != nil {
			return fmt.Errorf("marshaling response: %w", err)
		}
	}

	var query string
	var args []interface{}
	if status.IsTerminal() {
		query = `UPDATE webhook_records
			SET status = $1, response = COALESCE($2, response), processed_at = $3
			WHERE id = $4`
		args = []interface{}{status.String(), nullableJSON(responseJSON), time.Now().UTC(), id}
	} else {
		query = `UPDATE webhook_records
			SET status = $1, response = COALESCE($2, response)
			WHERE id = $3`
		args = []interface{}{status.String(), nullableJSON(responseJSON), id}
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return webhook.ErrNotFound
	}
	return nil
}

// IncrementRetry bumps the retry counter and returns the new count
func (r *Repository) IncrementRetry(ctx context.Context, id string) (int, error) {
	query := `UPDATE webhook_records
		SET retry_count = retry_count + 1
		WHERE id = $1
		RETURNING retry_count`

	var count int
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, webhook.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("incrementing retry count: %w", err)
	}
	return count, nil
}

// ListFailed returns retry-eligible failed records, oldest first
func (r *Repository) ListFailed(ctx context.Context, limit, maxRetries int) ([]webhook.Record, error) {
	query := `SELECT id, source, event_type, payload, headers, status, response, retry_count, max_retries, created_at, processed_at
		FROM webhook_records
		WHERE status = 'failed' AND retry_count < $1
		ORDER BY created_at ASC
		LIMIT $2`

	return r.queryRecords(ctx, query, maxRetries, limit)
}

// Recent returns the newest records first, bounded by limit
func (r *Repository) Recent(ctx context.Context, limit int) ([]webhook.Record, error) {
	query := `SELECT id, source, event_type, payload, headers, status, response, retry_count, max_retries, created_at, processed_at
		FROM webhook_records
		ORDER BY created_at DESC
		LIMIT $1`

	return r.queryRecords(ctx, query, limit)
}

/* Rollup recomputes the daily aggregate from webhook_records and refreshes
 * the daily_statistics cache row. The cache can drift-proof itself because
 * every read recomputes from record history.
 */
func (r *Repository) Rollup(ctx context.Context, source, eventType string, day time.Time) (webhook.DailyStatistic, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `SELECT
			COUNT(*) FILTER (WHERE status = 'processed'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COUNT(*),
			COALESCE(AVG((response->>'duration_ms')::bigint) FILTER (WHERE response IS NOT NULL AND status IN ('processed', 'failed')), 0)
		FROM webhook_records
		WHERE source = $1 AND event_type = $2 AND created_at >= $3 AND created_at < $4`

	stat := webhook.DailyStatistic{
		Source:    source,
		EventType: eventType,
		Date:      dayStart,
	}

	err := r.DB.QueryRowContext(ctx, query, source, eventType, dayStart, dayEnd).Scan(
		&stat.SuccessCount,
		&stat.FailedCount,
		&stat.TotalCount,
		&stat.AvgProcessingTimeMs,
	)
	if err != nil {
		return webhook.DailyStatistic{}, fmt.Errorf("computing rollup: %w", err)
	}

	upsert := `INSERT INTO daily_statistics
			(source, event_type, stat_date, success_count, failed_count, total_count, avg_processing_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (source, event_type, stat_date) DO UPDATE SET
			success_count = EXCLUDED.success_count,
			failed_count = EXCLUDED.failed_count,
			total_count = EXCLUDED.total_count,
			avg_processing_ms = EXCLUDED.avg_processing_ms`

	if _, err := r.DB.ExecContext(ctx, upsert,
		source, eventType, dayStart,
		stat.SuccessCount, stat.FailedCount, stat.TotalCount, stat.AvgProcessingTimeMs,
	); err != nil {
		return webhook.DailyStatistic{}, fmt.Errorf("caching rollup: %w", err)
	}

	return stat, nil
}

// SourceSummary counts records for one source created at or after since
func (r *Repository) SourceSummary(ctx context.Context, source string, since time.Time) (webhook.SourceSummary, error) {
	query := `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'processed'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COUNT(*) FILTER (WHERE status IN ('pending', 'retrying'))
		FROM webhook_records
		WHERE source = $1 AND created_at >= $2`

	var summary webhook.SourceSummary
	err := r.DB.QueryRowContext(ctx, query, source, since).Scan(
		&summary.Total,
		&summary.Success,
		&summary.Failed,
		&summary.Pending,
	)
	if err != nil {
		return webhook.SourceSummary{}, fmt.Errorf("summarizing source: %w", err)
	}
	return summary, nil
}

// StatusCounts returns record counts grouped by status name
func (r *Repository) StatusCounts(ctx context.Context) (map[string]int64, error) {
	query := `SELECT status, COUNT(*) FROM webhook_records GROUP BY status`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("counting statuses: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{
		"pending":   0,
		"processed": 0,
		"failed":    0,
		"retrying":  0,
	}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status counts: %w", err)
	}
	return counts, nil
}

// ProcessedSince counts successfully processed records in a time window
func (r *Repository) ProcessedSince(ctx context.Context, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM webhook_records
		WHERE status = 'processed' AND processed_at >= $1`

	var count int64
	if err := r.DB.QueryRowContext(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting processed records: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (r *Repository) Close(ctx context.Context) error {
	return r.DB.Close()
}

// Helper functions

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (webhook.Record, error) {
	var rec webhook.Record
	var headersJSON []byte
	var responseJSON []byte
	var status string
	var processedAt sql.NullTime

	err := row.Scan(
		&rec.ID,
		&rec.Source,
		&rec.EventType,
		&rec.RawPayload,
		&headersJSON,
		&status,
		&responseJSON,
		&rec.RetryCount,
		&rec.MaxRetries,
		&rec.CreatedAt,
		&processedAt,
	)
	if err != nil {
		return webhook.Record{}, err
	}

	rec.Status = webhook.NewStatus(status)
	if processedAt.Valid {
		rec.ProcessedAt = processedAt.Time
	}
	if len(headersJSON) > 0 {
		if err := json.Unmarshal(headersJSON, &rec.Headers); err != nil {
			return webhook.Record{}, fmt.Errorf("unmarshaling headers: %w", err)
		}
	}
	if len(responseJSON) > 0 {
		rec.Response = &webhook.Outcome{}
		if err := json.Unmarshal(responseJSON, rec.Response); err != nil {
			return webhook.Record{}, fmt.Errorf("unmarshaling response: %w", err)
		}
	}
	return rec, nil
}

func (r *Repository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]webhook.Record, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting records: %w", err)
	}
	defer rows.Close()

	var records []webhook.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

func nullableJSON(data []byte) interface{} {
	if len(data) == 0 {
		return nil
	}
	return data
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
