package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestRegistry(t *testing.T) {
	t.Run("resolves registered handler", func(t *testing.T) {
		registry := NewRegistry(discardLogger())
		registry.Register("trendyol", "order.created", HandlerFunc{
			HandlerName: "order-importer",
			Fn:          func(ctx context.Context, d Delivery) error { return nil },
		})

		handler := registry.Resolve("trendyol", "order.created")
		assert.Equal(t, "order-importer", handler.Name())
	})

	t.Run("unmapped pair falls back to noop", func(t *testing.T) {
		registry := NewRegistry(discardLogger())

		handler := registry.Resolve("trendyol", "order.cancelled")
		assert.Equal(t, "noop", handler.Name())
		assert.NoError(t, handler.Handle(context.Background(), Delivery{}))
	})

	t.Run("mapping is exact, not prefix-based", func(t *testing.T) {
		registry := NewRegistry(discardLogger())
		registry.Register("trendyol", "order.created", HandlerFunc{
			HandlerName: "order-importer",
			Fn:          func(ctx context.Context, d Delivery) error { return nil },
		})

		assert.Equal(t, "noop", registry.Resolve("n11", "order.created").Name())
		assert.Equal(t, "noop", registry.Resolve("trendyol", "order").Name())
	})

	t.Run("later registration replaces earlier one", func(t *testing.T) {
		registry := NewRegistry(discardLogger())
		registry.Register("trendyol", "order.created", HandlerFunc{
			HandlerName: "v1",
			Fn:          func(ctx context.Context, d Delivery) error { return nil },
		})
		registry.Register("trendyol", "order.created", HandlerFunc{
			HandlerName: "v2",
			Fn:          func(ctx context.Context, d Delivery) error { return nil },
		})

		assert.Equal(t, "v2", registry.Resolve("trendyol", "order.created").Name())
	})

	t.Run("custom fallback", func(t *testing.T) {
		registry := NewRegistry(discardLogger())
		registry.SetFallback(HandlerFunc{
			HandlerName: "dead-letter",
			Fn:          func(ctx context.Context, d Delivery) error { return nil },
		})

		assert.Equal(t, "dead-letter", registry.Resolve("anything", "at.all").Name())
	})
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()

	delivery := Delivery{
		WebhookID: "wh-1",
		Source:    "trendyol",
		EventType: "order.created",
		Payload:   []byte(`{"orderNumber":"T-1001"}`),
	}

	t.Run("success", func(t *testing.T) {
		registry := NewRegistry(discardLogger())
		registry.Register("trendyol", "order.created", HandlerFunc{
			HandlerName: "order-importer",
			Fn:          func(ctx context.Context, d Delivery) error { return nil },
		})

		dispatcher := NewDispatcher(registry, time.Second, discardLogger())
		result := dispatcher.Dispatch(ctx, delivery)

		assert.True(t, result.Success)
		assert.Equal(t, "order-importer", result.Handler)
		assert.Empty(t, result.Message)
		assert.GreaterOrEqual(t, result.DurationMs, int64(0))
	})

	t.Run("handler error is captured, not propagated", func(t *testing.T) {
		registry := NewRegistry(discardLogger())
		registry.Register("trendyol", "order.created", HandlerFunc{
			HandlerName: "order-importer",
			Fn:          func(ctx context.Context, d Delivery) error { return errors.New("downstream unavailable") },
		})

		dispatcher := NewDispatcher(registry, time.Second, discardLogger())
		result := dispatcher.Dispatch(ctx, delivery)

		assert.False(t, result.Success)
		assert.Equal(t, "downstream unavailable", result.Message)
	})

	t.Run("handler panic is captured, not propagated", func(t *testing.T) {
		registry := NewRegistry(discardLogger())
		registry.Register("trendyol", "order.created", HandlerFunc{
			HandlerName: "order-importer",
			Fn:          func(ctx context.Context, d Delivery) error { panic("nil map write") },
		})

		dispatcher := NewDispatcher(registry, time.Second, discardLogger())

		var result Result
		require.NotPanics(t, func() {
			result = dispatcher.Dispatch(ctx, delivery)
		})
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "handler panic")
	})

	t.Run("slow handler times out", func(t *testing.T) {
		registry := NewRegistry(discardLogger())
		registry.Register("trendyol", "order.created", HandlerFunc{
			HandlerName: "order-importer",
			Fn: func(ctx context.Context, d Delivery) error {
				select {
				case <-time.After(5 * time.Second):
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
		})

		dispatcher := NewDispatcher(registry, 20*time.Millisecond, discardLogger())
		result := dispatcher.Dispatch(ctx, delivery)

		assert.False(t, result.Success)
		assert.Equal(t, "handler timeout", result.Message)
	})

	t.Run("handler can deduplicate on the stable webhook id", func(t *testing.T) {
		registry := NewRegistry(discardLogger())

		// Retries re-dispatch under the same webhook id, so a handler
		// keeping its own seen-set produces exactly one downstream effect
		seen := make(map[string]bool)
		effects := 0
		registry.Register("trendyol", "order.created", HandlerFunc{
			HandlerName: "order-importer",
			Fn: func(ctx context.Context, d Delivery) error {
				if seen[d.WebhookID] {
					return nil
				}
				seen[d.WebhookID] = true
				effects++
				return nil
			},
		})

		dispatcher := NewDispatcher(registry, time.Second, discardLogger())
		first := dispatcher.Dispatch(ctx, delivery)
		second := dispatcher.Dispatch(ctx, delivery)

		assert.True(t, first.Success)
		assert.True(t, second.Success)
		assert.Equal(t, 1, effects)

		// A distinct id is a new delivery, not a replay
		other := delivery
		other.WebhookID = "wh-2"
		assert.True(t, dispatcher.Dispatch(ctx, other).Success)
		assert.Equal(t, 2, effects)
	})

	t.Run("cancelled request context stops the dispatch", func(t *testing.T) {
		registry := NewRegistry(discardLogger())
		registry.Register("trendyol", "order.created", HandlerFunc{
			HandlerName: "order-importer",
			Fn: func(ctx context.Context, d Delivery) error {
				<-ctx.Done()
				return ctx.Err()
			},
		})

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		dispatcher := NewDispatcher(registry, time.Second, discardLogger())
		result := dispatcher.Dispatch(cancelled, delivery)

		assert.False(t, result.Success)
	})
}
