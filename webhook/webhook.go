package webhook

import "time"

/* Record represents one inbound webhook delivery attempt
 * Uses value semantics as it represents data, not behavior
 * RawPayload and CreatedAt are immutable after creation; the payload is
 * stored verbatim for audit and replay
 */
type Record struct {
	ID          string
	Source      string
	EventType   string
	RawPayload  []byte
	Headers     map[string]string
	Status      Status
	Response    *Outcome
	RetryCount  int
	MaxRetries  int
	CreatedAt   time.Time
	ProcessedAt time.Time // zero until the first terminal attempt; overwritten on retry
}

// RetryExhausted reports whether the record is excluded from future retry sweeps
func (r Record) RetryExhausted() bool {
	return r.RetryCount >= r.MaxRetries
}

/* Outcome is the structured result of the last processing attempt
 * Stored alongside the record so operators can inspect handler failures
 * without digging through logs
 */
type Outcome struct {
	Success    bool   `json:"success"`
	Handler    string `json:"handler"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

/* DailyStatistic is a derived aggregate keyed by (source, eventType, date)
 * Never a source of truth: always recomputable from Record history
 */
type DailyStatistic struct {
	Source              string
	EventType           string
	Date                time.Time // truncated to the day, UTC
	SuccessCount        int64
	FailedCount         int64
	TotalCount          int64
	AvgProcessingTimeMs float64
}

// SourceSummary aggregates record counts for one source over a time window
type SourceSummary struct {
	Total   int64 `json:"total"`
	Success int64 `json:"success"`
	Failed  int64 `json:"failed"`
	Pending int64 `json:"pending"`
}
