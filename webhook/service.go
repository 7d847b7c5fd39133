package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/entegrahub/webhook-gateway/sources"
	"github.com/entegrahub/webhook-gateway/webhook/dispatch"
	"github.com/entegrahub/webhook-gateway/webhook/signature"
	"github.com/google/uuid"
)

/* Service represents the business logic layer
 * Uses pointer semantics as it's an API, not data
 * Pipeline: detect -> parse -> verify -> persist -> classify -> dispatch ->
 * outcome written back to the store
 */

// Result is what the gateway reports back to the sending platform
type Result struct {
	WebhookID string `json:"webhook_id"`
	EventType string `json:"event_type"`
	Success   bool   `json:"success"`
	Detail    string `json:"detail,omitempty"`
}

// UseCase defines the business operations of the gateway
type UseCase interface {
	// Ingest runs the full pipeline, detecting the source from the request
	Ingest(ctx context.Context, headers http.Header, body []byte) (Result, error)
	// IngestFrom runs the pipeline with the source pre-selected
	IngestFrom(ctx context.Context, sourceID string, headers http.Header, body []byte) (Result, error)
	// Retry re-runs classification and dispatch against a stored record
	Retry(ctx context.Context, record Record) (Result, error)
	// TestDelivery synthesizes a signed minimal payload and runs the pipeline
	TestDelivery(ctx context.Context, sourceID string) (Result, error)
	// Statistics returns per-source summaries for records created since the given time
	Statistics(ctx context.Context, since time.Time) (map[string]SourceSummary, error)
	// Rollup recomputes the daily aggregate for (source, eventType, day)
	Rollup(ctx context.Context, source, eventType string, day time.Time) (DailyStatistic, error)
	// Recent lists the newest records for operational inspection
	Recent(ctx context.Context, limit int) ([]Record, error)
}

type Service struct {
	Repo       Repository
	Sources    *sources.Loader
	Detector   *sources.Detector
	Classifier *sources.Classifier
	Dispatcher *dispatch.Dispatcher
	MaxRetries int
	Logger     *slog.Logger
}

// NewService creates a new gateway service with dependency injection
func NewService(repo Repository, loader *sources.Loader, dispatcher *dispatch.Dispatcher, maxRetries int, logger *slog.Logger) *Service {
	return &Service{
		Repo:       repo,
		Sources:    loader,
		Detector:   sources.NewDetector(loader),
		Classifier: sources.NewClassifier(),
		Dispatcher: dispatcher,
		MaxRetries: maxRetries,
		Logger:     logger,
	}
}

// Ingest accepts a delivery on the generic endpoint and detects its source
func (s *Service) Ingest(ctx context.Context, headers http.Header, body []byte) (Result, error) {
	src, err := s.Detector.Detect(headers, body)
	if err != nil {
		return Result{}, ErrUnknownSource
	}
	return s.ingest(ctx, src, headers, body)
}

// IngestFrom accepts a delivery on a per-source endpoint, skipping detection
func (s *Service) IngestFrom(ctx context.Context, sourceID string, headers http.Header, body []byte) (Result, error) {
	src, err := s.Sources.Get(sourceID)
	if err != nil || !src.Enabled {
		return Result{}, ErrUnknownSource
	}
	return s.ingest(ctx, src, headers, body)
}

func (s *Service) ingest(ctx context.Context, src *sources.Source, headers http.Header, body []byte) (Result, error) {
	if !json.Valid(body) {
		return Result{}, ErrMalformedPayload
	}

	if err := s.verify(ctx, src, headers, body); err != nil {
		return Result{}, err
	}

	eventType := s.Classifier.Classify(src, body, headers)
	if eventType == sources.EventTypeUnknown {
		s.Logger.Warn("unknown event type, dispatching to fallback",
			"source", src.ID)
	}

	record := Record{
		ID:         uuid.New().String(),
		Source:     src.ID,
		EventType:  eventType,
		RawPayload: body,
		Headers:    captureHeaders(headers),
		Status:     Pending,
		RetryCount: 0,
		MaxRetries: s.MaxRetries,
		CreatedAt:  time.Now().UTC(),
	}

	id, err := s.Repo.Save(ctx, record)
	if err != nil {
		return Result{}, &PersistenceError{Op: "save", Err: err}
	}
	record.ID = id

	return s.process(ctx, record)
}

/* verify enforces the source's signature scheme over the raw payload bytes
 * A source without a secret passes trivially (flagged at startup); a failed
 * check persists a security-audit record that is never dispatched or retried
 */
func (s *Service) verify(ctx context.Context, src *sources.Source, headers http.Header, body []byte) error {
	if !src.HasSecret() {
		return nil
	}

	presented := headers.Get(src.Signature.Header)
	ok, err := signature.Verify(src.Signature, src.Secret, body, presented)
	if err != nil || !ok {
		s.auditRejection(ctx, src, headers, body, err)
		return ErrInvalidSignature
	}
	return nil
}

// auditRejection stores a failed record for the security audit trail.
// RetryCount starts exhausted: a delivery that failed authentication must
// never be replayed by the sweep.
func (s *Service) auditRejection(ctx context.Context, src *sources.Source, headers http.Header, body []byte, cause error) {
	message := "invalid signature"
	if cause != nil {
		message = fmt.Sprintf("invalid signature: %v", cause)
	}

	// The record is born terminal: rejection is its first and only attempt
	now := time.Now().UTC()
	record := Record{
		ID:         uuid.New().String(),
		Source:     src.ID,
		EventType:  sources.EventTypeUnknown,
		RawPayload: body,
		Headers:    captureHeaders(headers),
		Status:     Failed,
		Response: &Outcome{
			Success: false,
			Handler: "security",
			Message: message,
		},
		RetryCount:  s.MaxRetries,
		MaxRetries:  s.MaxRetries,
		CreatedAt:   now,
		ProcessedAt: now,
	}

	if _, err := s.Repo.Save(ctx, record); err != nil {
		s.Logger.Error("persisting security-audit record", "source", src.ID, "error", err)
	}
}

// process dispatches a pending record and writes the outcome back
func (s *Service) process(ctx context.Context, record Record) (Result, error) {
	result := s.Dispatcher.Dispatch(ctx, dispatch.Delivery{
		WebhookID: record.ID,
		Source:    record.Source,
		EventType: record.EventType,
		Payload:   json.RawMessage(record.RawPayload),
		Headers:   record.Headers,
	})

	outcome := &Outcome{
		Success:    result.Success,
		Handler:    result.Handler,
		Message:    result.Message,
		DurationMs: result.DurationMs,
	}

	status := Processed
	if !result.Success {
		status = Failed
	}

	if err := s.Repo.UpdateStatus(ctx, record.ID, status, outcome); err != nil {
		return Result{}, &PersistenceError{Op: "update status", Err: err}
	}

	return Result{
		WebhookID: record.ID,
		EventType: record.EventType,
		Success:   result.Success,
		Detail:    result.Message,
	}, nil
}

/* Retry re-runs classification and dispatch against the stored raw payload
 * The retry counter is bumped at the start of the attempt, so a record that
 * was retried once and then succeeded shows RetryCount == 1
 */
func (s *Service) Retry(ctx context.Context, record Record) (Result, error) {
	if record.RetryExhausted() {
		return Result{}, fmt.Errorf("record %s has exhausted its retries", record.ID)
	}

	if err := s.Repo.UpdateStatus(ctx, record.ID, Retrying, nil); err != nil {
		return Result{}, &PersistenceError{Op: "mark retrying", Err: err}
	}

	if _, err := s.Repo.IncrementRetry(ctx, record.ID); err != nil {
		return Result{}, &PersistenceError{Op: "increment retry", Err: err}
	}

	// Reclassify from the stored payload: mapping rules may have been fixed
	// since the original attempt
	src, err := s.Sources.Get(record.Source)
	if err == nil {
		record.EventType = s.Classifier.Classify(src, record.RawPayload, headersFromMap(record.Headers))
	}

	return s.process(ctx, record)
}

// TestDelivery synthesizes a minimal valid payload for the source and runs
// it through the full pipeline. Operational verification only.
func (s *Service) TestDelivery(ctx context.Context, sourceID string) (Result, error) {
	src, err := s.Sources.Get(sourceID)
	if err != nil || !src.Enabled {
		return Result{}, ErrUnknownSource
	}

	event := src.TestEvent
	if event == "" {
		event = "order.created"
	}

	payload := map[string]any{"test": "true"}
	if src.EventField != "" {
		setJSONPath(payload, src.EventField, event)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("building test payload: %w", err)
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	if src.EventHeader != "" {
		headers.Set(src.EventHeader, event)
	}
	if src.MarkerHeader != "" {
		headers.Set(src.MarkerHeader, "test")
	}
	if src.HasSecret() {
		headers.Set(src.Signature.Header, signature.Sign(src.Signature, src.Secret, body))
	}

	return s.ingest(ctx, src, headers, body)
}

// Statistics returns per-source summaries for records created since the given time
func (s *Service) Statistics(ctx context.Context, since time.Time) (map[string]SourceSummary, error) {
	summaries := make(map[string]SourceSummary)
	for _, src := range s.Sources.List() {
		summary, err := s.Repo.SourceSummary(ctx, src.ID, since)
		if err != nil {
			return nil, fmt.Errorf("summarizing source %s: %w", src.ID, err)
		}
		summaries[src.ID] = summary
	}
	return summaries, nil
}

// Rollup recomputes the daily aggregate for (source, eventType, day)
func (s *Service) Rollup(ctx context.Context, source, eventType string, day time.Time) (DailyStatistic, error) {
	return s.Repo.Rollup(ctx, source, eventType, day)
}

// Recent lists the newest records for operational inspection
func (s *Service) Recent(ctx context.Context, limit int) ([]Record, error) {
	return s.Repo.Recent(ctx, limit)
}

// setJSONPath writes a value into a nested map following a dotted path,
// mirroring how the classifier reads dotted event fields
func setJSONPath(doc map[string]any, path, value string) {
	parts := strings.Split(path, ".")
	current := doc
	for i, part := range parts {
		if i == len(parts)-1 {
			current[part] = value
			return
		}
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
}

// captureHeaders flattens request headers into the stored metadata map
func captureHeaders(headers http.Header) map[string]string {
	captured := make(map[string]string, len(headers))
	for key, values := range headers {
		if len(values) > 0 {
			captured[key] = values[0]
		}
	}
	return captured
}

// headersFromMap rebuilds an http.Header from stored metadata for replay
func headersFromMap(stored map[string]string) http.Header {
	headers := http.Header{}
	for key, value := range stored {
		headers.Set(key, value)
	}
	return headers
}
