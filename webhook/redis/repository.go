package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/entegrahub/webhook-gateway/webhook"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of webhook.Repository
 * Uses Redis Hashes for record storage and sorted sets as indexes:
 *   record:{id}                      full record fields
 *   idx:created                      all ids scored by creation time
 *   idx:source:{source}:{status}     ids per (source, status), scored by creation time
 *   idx:failed                       retry-eligible failed ids, oldest first
 *   idx:processed                    processed ids scored by processing time
 * The failed index only ever holds records whose retry count is below the
 * maximum, so the sweep's FIFO read needs no client-side filtering
 */

const (
	recordPrefix    = "record"
	createdIndexKey = "idx:created"
	sourceIndexFmt  = "idx:source:%s:%s"
	failedIndexKey  = "idx:failed"
	processedIndex  = "idx:processed"
)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Repository{
		client: client,
	}, nil
}

// Save persists a new record and maintains its indexes
func (r *Repository) Save(ctx context.Context, rec webhook.Record) (string, error) {
	hashKey := recordKey(rec.ID)
	createdMs := rec.CreatedAt.UnixMilli()

	headersJSON, err := json.Marshal(rec.Headers)
	if err != nil {
		return "", fmt.Errorf("marshaling headers: %w", err)
	}

	// Records normally arrive pending; security-audit records are saved
	// already terminal and carry their processing timestamp with them
	processedMs := int64(0)
	if !rec.ProcessedAt.IsZero() {
		processedMs = rec.ProcessedAt.UnixMilli()
	}

	fields := map[string]interface{}{
		"id":           rec.ID,
		"source":       rec.Source,
		"event_type":   rec.EventType,
		"payload":      rec.RawPayload,
		"headers":      string(headersJSON),
		"status":       rec.Status.String(),
		"retry_count":  rec.RetryCount,
		"max_retries":  rec.MaxRetries,
		"created_at":   createdMs,
		"processed_at": processedMs,
	}
	if rec.Response != nil {
		responseJSON, err := json.Marshal(rec.Response)
		if err != nil {
			return "", fmt.Errorf("marshaling response: %w", err)
		}
		fields["response"] = string(responseJSON)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, hashKey, fields)
	pipe.ZAdd(ctx, createdIndexKey, redis.Z{Score: float64(createdMs), Member: rec.ID})
	pipe.ZAdd(ctx, sourceIndexKey(rec.Source, rec.Status), redis.Z{Score: float64(createdMs), Member: rec.ID})
	if rec.Status == webhook.Failed && rec.RetryCount < rec.MaxRetries {
		pipe.ZAdd(ctx, failedIndexKey, redis.Z{Score: float64(createdMs), Member: rec.ID})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("storing record: %w", err)
	}

	return rec.ID, nil
}

// Get retrieves a record by ID
func (r *Repository) Get(ctx context.Context, id string) (webhook.Record, error) {
	data, err := r.client.HGetAll(ctx, recordKey(id)).Result()
	if err != nil {
		return webhook.Record{}, fmt.Errorf("getting record: %w", err)
	}
	if len(data) == 0 {
		return webhook.Record{}, webhook.ErrNotFound
	}
	return recordFromHash(data)
}

// UpdateStatus moves a record between statuses and re-indexes it
func (r *Repository) UpdateStatus(ctx context.Context, id string, status webhook.Status, outcome *webhook.Outcome) error {
	current, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if status != current.Status && !current.Status.CanTransitionTo(status) {
		return fmt.Errorf("invalid status transition %s -> %s", current.Status, status)
	}

	createdMs := current.CreatedAt.UnixMilli()
	now := time.Now().UTC()

	fields := map[string]interface{}{
		"status": status.String(),
	}
	if status.IsTerminal() {
		fields["processed_at"] = now.UnixMilli()
	}
	if outcome != nil {
		responseJSON, err := json.Marshal(outcome)
		if err != nil {
			return fmt.Errorf("marshaling response: %w", err)
		}
		fields["response"] = string(responseJSON)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, recordKey(id), fields)
	if status != current.Status {
		pipe.ZRem(ctx, sourceIndexKey(current.Source, current.Status), id)
		pipe.ZAdd(ctx, sourceIndexKey(current.Source, status), redis.Z{Score: float64(createdMs), Member: id})
	}
	pipe.ZRem(ctx, failedIndexKey, id)
	if status == webhook.Failed && current.RetryCount < current.MaxRetries {
		pipe.ZAdd(ctx, failedIndexKey, redis.Z{Score: float64(createdMs), Member: id})
	}
	if status == webhook.Processed {
		pipe.ZAdd(ctx, processedIndex, redis.Z{Score: float64(now.UnixMilli()), Member: id})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	return nil
}

// IncrementRetry bumps the retry counter and returns the new count
func (r *Repository) IncrementRetry(ctx context.Context, id string) (int, error) {
	count, err := r.client.HIncrBy(ctx, recordKey(id), "retry_count", 1).Result()
	if err != nil {
		return 0, fmt.Errorf("incrementing retry count: %w", err)
	}

	maxStr, err := r.client.HGet(ctx, recordKey(id), "max_retries").Result()
	if err == nil && count >= parseInt64(maxStr) {
		// Exhausted records must never reappear in the sweep queue
		r.client.ZRem(ctx, failedIndexKey, id)
	}

	return int(count), nil
}

// ListFailed returns retry-eligible failed records, oldest first
func (r *Repository) ListFailed(ctx context.Context, limit, maxRetries int) ([]webhook.Record, error) {
	ids, err := r.client.ZRangeByScore(ctx, failedIndexKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   "+inf",
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("reading failed index: %w", err)
	}

	records := make([]webhook.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := r.Get(ctx, id)
		if err != nil {
			continue
		}
		// The index should only hold eligible records; filter defensively
		// in case of partial writes
		if rec.Status != webhook.Failed || rec.RetryCount >= maxRetries {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Recent returns the newest records first, bounded by limit
func (r *Repository) Recent(ctx context.Context, limit int) ([]webhook.Record, error) {
	ids, err := r.client.ZRevRange(ctx, createdIndexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading created index: %w", err)
	}

	records := make([]webhook.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := r.Get(ctx, id)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

/* Rollup recomputes the daily aggregate for (source, eventType, day) by
 * scanning the day's slice of the created index. No hidden counters: the
 * aggregate can always be rebuilt from record history alone.
 */
func (r *Repository) Rollup(ctx context.Context, source, eventType string, day time.Time) (webhook.DailyStatistic, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	ids, err := r.client.ZRangeByScore(ctx, createdIndexKey, &redis.ZRangeBy{
		Min: strconv.FormatInt(dayStart.UnixMilli(), 10),
		Max: "(" + strconv.FormatInt(dayEnd.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return webhook.DailyStatistic{}, fmt.Errorf("reading created index: %w", err)
	}

	stat := webhook.DailyStatistic{
		Source:    source,
		EventType: eventType,
		Date:      dayStart,
	}

	var durationTotal int64
	var durationSamples int64
	for _, id := range ids {
		rec, err := r.Get(ctx, id)
		if err != nil {
			continue
		}
		if rec.Source != source || rec.EventType != eventType {
			continue
		}

		stat.TotalCount++
		switch rec.Status {
		case webhook.Processed:
			stat.SuccessCount++
		case webhook.Failed:
			stat.FailedCount++
		}
		if rec.Response != nil && rec.Status.IsTerminal() {
			durationTotal += rec.Response.DurationMs
			durationSamples++
		}
	}

	if durationSamples > 0 {
		stat.AvgProcessingTimeMs = float64(durationTotal) / float64(durationSamples)
	}
	return stat, nil
}

// SourceSummary counts records for one source created at or after since
func (r *Repository) SourceSummary(ctx context.Context, source string, since time.Time) (webhook.SourceSummary, error) {
	min := strconv.FormatInt(since.UnixMilli(), 10)

	count := func(status webhook.Status) (int64, error) {
		n, err := r.client.ZCount(ctx, sourceIndexKey(source, status), min, "+inf").Result()
		if err != nil && err != redis.Nil {
			return 0, err
		}
		return n, nil
	}

	var summary webhook.SourceSummary
	processed, err := count(webhook.Processed)
	if err != nil {
		return webhook.SourceSummary{}, fmt.Errorf("counting processed: %w", err)
	}
	failed, err := count(webhook.Failed)
	if err != nil {
		return webhook.SourceSummary{}, fmt.Errorf("counting failed: %w", err)
	}
	pending, err := count(webhook.Pending)
	if err != nil {
		return webhook.SourceSummary{}, fmt.Errorf("counting pending: %w", err)
	}
	retrying, err := count(webhook.Retrying)
	if err != nil {
		return webhook.SourceSummary{}, fmt.Errorf("counting retrying: %w", err)
	}

	summary.Success = processed
	summary.Failed = failed
	summary.Pending = pending + retrying
	summary.Total = processed + failed + pending + retrying
	return summary, nil
}

// StatusCounts returns record counts grouped by status name
func (r *Repository) StatusCounts(ctx context.Context) (map[string]int64, error) {
	counts := map[string]int64{
		"pending":   0,
		"processed": 0,
		"failed":    0,
		"retrying":  0,
	}

	var cursor uint64
	for {
		keys, nextCursor, err := r.client.Scan(ctx, cursor, "idx:source:*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning source indexes: %w", err)
		}

		for _, key := range keys {
			parts := strings.Split(key, ":")
			status := parts[len(parts)-1]
			if _, known := counts[status]; !known {
				continue
			}
			n, err := r.client.ZCard(ctx, key).Result()
			if err != nil {
				continue
			}
			counts[status] += n
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return counts, nil
}

// ProcessedSince counts successfully processed records in a time window
func (r *Repository) ProcessedSince(ctx context.Context, since time.Time) (int64, error) {
	min := strconv.FormatInt(since.UnixMilli(), 10)
	n, err := r.client.ZCount(ctx, processedIndex, min, "+inf").Result()
	if err != nil && err != redis.Nil {
		return 0, fmt.Errorf("counting processed records: %w", err)
	}
	return n, nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

// GetClient returns the underlying Redis client for advanced operations
func (r *Repository) GetClient() *redis.Client {
	return r.client
}

// Helper functions

func recordKey(id string) string {
	return fmt.Sprintf("%s:%s", recordPrefix, id)
}

func sourceIndexKey(source string, status webhook.Status) string {
	return fmt.Sprintf(sourceIndexFmt, source, status.String())
}

func recordFromHash(data map[string]string) (webhook.Record, error) {
	headers := make(map[string]string)
	if headersStr, ok := data["headers"]; ok && headersStr != "" {
		if err := json.Unmarshal([]byte(headersStr), &headers); err != nil {
			return webhook.Record{}, fmt.Errorf("unmarshaling headers: %w", err)
		}
	}

	var response *webhook.Outcome
	if responseStr, ok := data["response"]; ok && responseStr != "" {
		response = &webhook.Outcome{}
		if err := json.Unmarshal([]byte(responseStr), response); err != nil {
			return webhook.Record{}, fmt.Errorf("unmarshaling response: %w", err)
		}
	}

	rec := webhook.Record{
		ID:         data["id"],
		Source:     data["source"],
		EventType:  data["event_type"],
		RawPayload: []byte(data["payload"]),
		Headers:    headers,
		Status:     webhook.NewStatus(data["status"]),
		Response:   response,
		RetryCount: int(parseInt64(data["retry_count"])),
		MaxRetries: int(parseInt64(data["max_retries"])),
		CreatedAt:  time.UnixMilli(parseInt64(data["created_at"])).UTC(),
	}

	if processedMs := parseInt64(data["processed_at"]); processedMs > 0 {
		rec.ProcessedAt = time.UnixMilli(processedMs).UTC()
	}

	return rec, nil
}

func parseInt64(s string) int64 {
	var result int64
	fmt.Sscanf(s, "%d", &result)
	return result
}
