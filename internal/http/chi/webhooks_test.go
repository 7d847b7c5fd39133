package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/entegrahub/webhook-gateway/webhook"
	"github.com/entegrahub/webhook-gateway/webhook/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const adminToken = "test-admin-token"

func testRouter(t *testing.T, service webhook.UseCase, sweeper *webhook.Sweeper) http.Handler {
	t.Helper()
	return Handlers(context.Background(), service, sweeper, adminToken, nil)
}

func testSweeper(t *testing.T, service webhook.UseCase, repo webhook.RetryLister) *webhook.Sweeper {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return webhook.NewSweeper(service, repo, 50, 3, logger)
}

func adminRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	return req
}

func TestPostWebhook(t *testing.T) {
	t.Run("success - accepted delivery", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		service.On("Ingest", mock.Anything, mock.Anything, []byte(`{"eventType":"OrderCreated"}`)).
			Return(webhook.Result{WebhookID: "wh-1", EventType: "order.created", Success: true}, nil).Once()

		router := testRouter(t, service, nil)

		req := httptest.NewRequest(http.MethodPost, "/webhooks", strings.NewReader(`{"eventType":"OrderCreated"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp ingestResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "wh-1", resp.WebhookID)
		assert.Equal(t, "order.created", resp.EventType)
	})

	t.Run("handler failure still returns 200", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		service.On("Ingest", mock.Anything, mock.Anything, mock.Anything).
			Return(webhook.Result{WebhookID: "wh-2", EventType: "order.created", Success: false, Detail: "downstream unavailable"}, nil).Once()

		router := testRouter(t, service, nil)

		req := httptest.NewRequest(http.MethodPost, "/webhooks", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp ingestResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "downstream unavailable", resp.Detail)
	})

	t.Run("error - unknown source is a 400", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		service.On("Ingest", mock.Anything, mock.Anything, mock.Anything).
			Return(webhook.Result{}, webhook.ErrUnknownSource).Once()

		router := testRouter(t, service, nil)

		req := httptest.NewRequest(http.MethodPost, "/webhooks", strings.NewReader(`{"orderNumber":"T-1001"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp errorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "Unknown marketplace", resp.Error)
	})

	t.Run("error - malformed payload is a 400", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		service.On("Ingest", mock.Anything, mock.Anything, mock.Anything).
			Return(webhook.Result{}, webhook.ErrMalformedPayload).Once()

		router := testRouter(t, service, nil)

		req := httptest.NewRequest(http.MethodPost, "/webhooks", strings.NewReader(`{"broken":`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("error - invalid signature is a 401", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		service.On("Ingest", mock.Anything, mock.Anything, mock.Anything).
			Return(webhook.Result{}, webhook.ErrInvalidSignature).Once()

		router := testRouter(t, service, nil)

		req := httptest.NewRequest(http.MethodPost, "/webhooks", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("error - persistence failure is a 500", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		service.On("Ingest", mock.Anything, mock.Anything, mock.Anything).
			Return(webhook.Result{}, &webhook.PersistenceError{Op: "save", Err: errors.New("connection refused")}).Once()

		router := testRouter(t, service, nil)

		req := httptest.NewRequest(http.MethodPost, "/webhooks", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)

		// Store internals stay out of the response body
		var resp errorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.NotContains(t, resp.Error, "connection refused")
	})
}

func TestPostSourceWebhook(t *testing.T) {
	t.Run("success - source taken from the route", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		service.On("IngestFrom", mock.Anything, "trendyol", mock.Anything, mock.Anything).
			Return(webhook.Result{WebhookID: "wh-1", EventType: "order.created", Success: true}, nil).Once()

		router := testRouter(t, service, nil)

		req := httptest.NewRequest(http.MethodPost, "/webhooks/trendyol", strings.NewReader(`{"eventType":"OrderCreated"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("error - unknown source in route", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		service.On("IngestFrom", mock.Anything, "ebay", mock.Anything, mock.Anything).
			Return(webhook.Result{}, webhook.ErrUnknownSource).Once()

		router := testRouter(t, service, nil)

		req := httptest.NewRequest(http.MethodPost, "/webhooks/ebay", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetStatistics(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		service.On("Statistics", mock.Anything, mock.AnythingOfType("time.Time")).
			Return(map[string]webhook.SourceSummary{
				"trendyol": {Total: 10, Success: 8, Failed: 1, Pending: 1},
			}, nil).Once()

		router := testRouter(t, service, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, adminRequest(http.MethodGet, "/webhooks/statistics", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]webhook.SourceSummary
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, int64(8), resp["trendyol"].Success)
	})

	t.Run("error - missing token", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		router := testRouter(t, service, nil)

		req := httptest.NewRequest(http.MethodGet, "/webhooks/statistics", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("error - wrong token", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		router := testRouter(t, service, nil)

		req := httptest.NewRequest(http.MethodGet, "/webhooks/statistics", nil)
		req.Header.Set("Authorization", "Bearer wrong-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("error - no token configured fails closed", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		router := Handlers(context.Background(), service, nil, "", nil)

		req := httptest.NewRequest(http.MethodGet, "/webhooks/statistics", nil)
		req.Header.Set("Authorization", "Bearer ")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestGetRecent(t *testing.T) {
	t.Run("success - default limit", func(t *testing.T) {
		processedAt := time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC)
		service := mocks.NewUseCase(t)
		service.On("Recent", mock.Anything, 50).
			Return([]webhook.Record{
				{
					ID:          "wh-1",
					Source:      "trendyol",
					EventType:   "order.created",
					Status:      webhook.Processed,
					Response:    &webhook.Outcome{Success: true, Handler: "order-importer"},
					CreatedAt:   processedAt.Add(-time.Second),
					ProcessedAt: processedAt,
				},
			}, nil).Once()

		router := testRouter(t, service, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, adminRequest(http.MethodGet, "/webhooks/recent", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp []recordResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "processed", resp[0].Status)
		require.NotNil(t, resp[0].ProcessedAt)
		assert.Equal(t, processedAt, resp[0].ProcessedAt.UTC())
	})

	t.Run("limit is capped at 200", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		service.On("Recent", mock.Anything, 200).Return([]webhook.Record{}, nil).Once()

		router := testRouter(t, service, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, adminRequest(http.MethodGet, "/webhooks/recent?limit=1000", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("error - invalid limit", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		router := testRouter(t, service, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, adminRequest(http.MethodGet, "/webhooks/recent?limit=zero", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPostTest(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		service.On("TestDelivery", mock.Anything, "trendyol").
			Return(webhook.Result{WebhookID: "wh-test", EventType: "order.created", Success: true}, nil).Once()

		router := testRouter(t, service, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, adminRequest(http.MethodPost, "/webhooks/test", strings.NewReader(`{"source":"trendyol"}`)))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp ingestResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.Success)
	})

	t.Run("error - missing source field", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		router := testRouter(t, service, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, adminRequest(http.MethodPost, "/webhooks/test", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("error - unknown source", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		service.On("TestDelivery", mock.Anything, "ebay").
			Return(webhook.Result{}, webhook.ErrUnknownSource).Once()

		router := testRouter(t, service, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, adminRequest(http.MethodPost, "/webhooks/test", strings.NewReader(`{"source":"ebay"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPostReprocess(t *testing.T) {
	t.Run("success - reports the reprocessed count", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		repo := mocks.NewRepository(t)

		record := webhook.Record{ID: "wh-1", Source: "trendyol", Status: webhook.Failed, MaxRetries: 3}
		repo.On("ListFailed", mock.Anything, 50, 3).Return([]webhook.Record{record}, nil).Once()
		service.On("Retry", mock.Anything, record).
			Return(webhook.Result{WebhookID: "wh-1", Success: true}, nil).Once()

		router := testRouter(t, service, testSweeper(t, service, repo))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, adminRequest(http.MethodPost, "/webhooks/reprocess", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp reprocessResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 1, resp.Reprocessed)
	})

	t.Run("error - sweep already running is a 409", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		repo := mocks.NewRepository(t)

		record := webhook.Record{ID: "wh-slow", Source: "trendyol", Status: webhook.Failed, MaxRetries: 3}
		repo.On("ListFailed", mock.Anything, 50, 3).Return([]webhook.Record{record}, nil).Once()

		retryStarted := make(chan struct{})
		releaseRetry := make(chan struct{})
		service.On("Retry", mock.Anything, record).
			Run(func(args mock.Arguments) {
				close(retryStarted)
				<-releaseRetry
			}).
			Return(webhook.Result{Success: true}, nil).Once()

		router := testRouter(t, service, testSweeper(t, service, repo))

		firstDone := make(chan struct{})
		go func() {
			defer close(firstDone)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, adminRequest(http.MethodPost, "/webhooks/reprocess", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}()

		<-retryStarted
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, adminRequest(http.MethodPost, "/webhooks/reprocess", nil))
		assert.Equal(t, http.StatusConflict, rec.Code)

		close(releaseRetry)
		<-firstDone
	})

	t.Run("error - store failure is a 500", func(t *testing.T) {
		service := mocks.NewUseCase(t)
		repo := mocks.NewRepository(t)
		repo.On("ListFailed", mock.Anything, 50, 3).
			Return(nil, errors.New("connection refused")).Once()

		router := testRouter(t, service, testSweeper(t, service, repo))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, adminRequest(http.MethodPost, "/webhooks/reprocess", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHealth(t *testing.T) {
	service := mocks.NewUseCase(t)
	router := testRouter(t, service, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}
