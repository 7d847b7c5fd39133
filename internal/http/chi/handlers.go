package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/entegrahub/webhook-gateway/webhook"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

// Handlers sets up the gateway API routes
func Handlers(ctx context.Context, service webhook.UseCase, sweeper *webhook.Sweeper, adminToken string, metricsHandler http.Handler) *chi.Mux {
	logger := httplog.NewLogger("webhook-gateway", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	// Ingestion endpoints: open to the platforms, authenticated by signature
	r.Post("/webhooks", postWebhook(service).ServeHTTP)
	r.Post("/webhooks/{source}", postSourceWebhook(service).ServeHTTP)

	// Operational endpoints: bearer token, fail closed
	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin(adminToken))
		r.Get("/webhooks/statistics", getStatistics(service).ServeHTTP)
		r.Get("/webhooks/recent", getRecent(service).ServeHTTP)
		r.Post("/webhooks/test", postTest(service).ServeHTTP)
		r.Post("/webhooks/reprocess", postReprocess(sweeper).ServeHTTP)
	})

	return r
}
