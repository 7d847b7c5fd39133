package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/entegrahub/webhook-gateway/webhook"
	"github.com/go-chi/chi/v5"
)

/* HTTP layer DTOs for the gateway API
 * Separate from domain entities to avoid leaking internal structure
 */

// ingestResponse is returned for every accepted delivery, including
// handler-caught failures: a 200 with success=false avoids re-delivery storms
type ingestResponse struct {
	Success   bool   `json:"success"`
	WebhookID string `json:"webhook_id"`
	EventType string `json:"event_type"`
	Detail    string `json:"detail,omitempty"`
}

// errorResponse is the uniform error body
type errorResponse struct {
	Error string `json:"error"`
}

// testRequest selects the source for a synthesized test delivery
type testRequest struct {
	Source string `json:"source"`
}

// reprocessResponse reports the outcome of one retry sweep
type reprocessResponse struct {
	Reprocessed int `json:"reprocessed"`
}

// recordResponse is the operational view of a stored record
type recordResponse struct {
	ID          string           `json:"id"`
	Source      string           `json:"source"`
	EventType   string           `json:"event_type"`
	Status      string           `json:"status"`
	RetryCount  int              `json:"retry_count"`
	Response    *webhook.Outcome `json:"response,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	ProcessedAt *time.Time       `json:"processed_at,omitempty"`
}

// postWebhook handles POST /webhooks
func postWebhook(service webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read request body")
			return
		}
		defer r.Body.Close()

		result, err := service.Ingest(r.Context(), r.Header, body)
		if err != nil {
			writeIngestError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, ingestResponse{
			Success:   result.Success,
			WebhookID: result.WebhookID,
			EventType: result.EventType,
			Detail:    result.Detail,
		})
	})
}

// postSourceWebhook handles POST /webhooks/{source}
func postSourceWebhook(service webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sourceID := chi.URLParam(r, "source")

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read request body")
			return
		}
		defer r.Body.Close()

		result, err := service.IngestFrom(r.Context(), sourceID, r.Header, body)
		if err != nil {
			writeIngestError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, ingestResponse{
			Success:   result.Success,
			WebhookID: result.WebhookID,
			EventType: result.EventType,
			Detail:    result.Detail,
		})
	})
}

// getStatistics handles GET /webhooks/statistics (30-day per-source rollup)
func getStatistics(service webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		since := time.Now().UTC().AddDate(0, 0, -30)

		summaries, err := service.Statistics(r.Context(), since)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, summaries)
	})
}

// getRecent handles GET /webhooks/recent
func getRecent(service webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = parsed
		}
		if limit > 200 {
			limit = 200
		}

		records, err := service.Recent(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		responses := make([]recordResponse, 0, len(records))
		for _, rec := range records {
			responses = append(responses, toRecordResponse(rec))
		}
		writeJSON(w, http.StatusOK, responses)
	})
}

// postTest handles POST /webhooks/test
func postTest(service webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req testRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Source == "" {
			writeError(w, http.StatusBadRequest, "body must be JSON with a source field")
			return
		}

		result, err := service.TestDelivery(r.Context(), req.Source)
		if err != nil {
			writeIngestError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, ingestResponse{
			Success:   result.Success,
			WebhookID: result.WebhookID,
			EventType: result.EventType,
			Detail:    result.Detail,
		})
	})
}

// postReprocess handles POST /webhooks/reprocess: one synchronous retry sweep
func postReprocess(sweeper *webhook.Sweeper) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reprocessed, err := sweeper.RunOnce(r.Context())
		if err != nil {
			if errors.Is(err, webhook.ErrSweepRunning) {
				writeError(w, http.StatusConflict, "a retry sweep is already running")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, reprocessResponse{Reprocessed: reprocessed})
	})
}

/* writeIngestError maps the pipeline error taxonomy onto HTTP statuses
 * Only persistence failures surface as 5xx: the sending platform retries
 * on 5xx per standard webhook conventions
 */
func writeIngestError(w http.ResponseWriter, err error) {
	var persistence *webhook.PersistenceError
	switch {
	case errors.Is(err, webhook.ErrUnknownSource):
		writeError(w, http.StatusBadRequest, "Unknown marketplace")
	case errors.Is(err, webhook.ErrMalformedPayload):
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
	case errors.Is(err, webhook.ErrInvalidSignature):
		writeError(w, http.StatusUnauthorized, "invalid signature")
	case errors.As(err, &persistence):
		writeError(w, http.StatusInternalServerError, "failed to record delivery")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func toRecordResponse(rec webhook.Record) recordResponse {
	resp := recordResponse{
		ID:         rec.ID,
		Source:     rec.Source,
		EventType:  rec.EventType,
		Status:     rec.Status.String(),
		RetryCount: rec.RetryCount,
		Response:   rec.Response,
		CreatedAt:  rec.CreatedAt,
	}
	if !rec.ProcessedAt.IsZero() {
		processedAt := rec.ProcessedAt
		resp.ProcessedAt = &processedAt
	}
	return resp
}
