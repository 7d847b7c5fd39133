package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

/* Handler registry and dispatcher
 * Handlers are resolved from an explicit (source, eventType) mapping built at
 * startup, never from strings assembled at call time. A missing mapping is
 * not an error: the generic fallback records the event without side effects.
 */

// Delivery is the normalized event handed to handlers.
// WebhookID is stable across retries so handlers can de-duplicate their own
// side effects; idempotency is the handler's responsibility.
type Delivery struct {
	WebhookID string
	Source    string
	EventType string
	Payload   json.RawMessage
	Headers   map[string]string
}

// Handler processes one normalized event
type Handler interface {
	Name() string
	Handle(ctx context.Context, d Delivery) error
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc struct {
	HandlerName string
	Fn          func(ctx context.Context, d Delivery) error
}

func (h HandlerFunc) Name() string { return h.HandlerName }

func (h HandlerFunc) Handle(ctx context.Context, d Delivery) error {
	return h.Fn(ctx, d)
}

// Registry maps (source, eventType) pairs to handlers
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	fallback Handler
	logger   *slog.Logger
}

// NewRegistry creates a registry with the generic no-op fallback
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		fallback: noopHandler{},
		logger:   logger,
	}
}

// Register binds a handler to a (source, eventType) pair.
// Later registrations for the same pair replace earlier ones.
func (r *Registry) Register(source, eventType string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[registryKey(source, eventType)] = h
}

// SetFallback replaces the generic handler used when no mapping exists
func (r *Registry) SetFallback(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = h
}

// Resolve returns the handler for a pair, falling back to the generic handler
func (r *Registry) Resolve(source, eventType string) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if h, ok := r.handlers[registryKey(source, eventType)]; ok {
		return h
	}
	if r.logger != nil {
		r.logger.Warn("no handler registered, using fallback",
			"source", source, "event_type", eventType)
	}
	return r.fallback
}

func registryKey(source, eventType string) string {
	return source + "/" + eventType
}

// noopHandler records the event without side effects
type noopHandler struct{}

func (noopHandler) Name() string { return "noop" }

func (noopHandler) Handle(ctx context.Context, d Delivery) error { return nil }

// Result is the outcome of one dispatch attempt
type Result struct {
	Success    bool
	Handler    string
	Message    string
	DurationMs int64
}

/* Dispatcher runs handlers with failure isolation
 * A handler error, panic or timeout never propagates: it is captured into a
 * failed Result so the inbound request keeps its at-least-once contract
 */
type Dispatcher struct {
	registry *Registry
	timeout  time.Duration
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher with a per-handler execution timeout
func NewDispatcher(registry *Registry, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		timeout:  timeout,
		logger:   logger,
	}
}

// Dispatch resolves and runs the handler for the delivery
func (d *Dispatcher) Dispatch(ctx context.Context, delivery Delivery) Result {
	handler := d.registry.Resolve(delivery.Source, delivery.EventType)
	start := time.Now()

	err := d.run(ctx, handler, delivery)

	result := Result{
		Success:    err == nil,
		Handler:    handler.Name(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		result.Message = err.Error()
		d.logger.Error("handler failed",
			"handler", handler.Name(),
			"webhook_id", delivery.WebhookID,
			"source", delivery.Source,
			"event_type", delivery.EventType,
			"error", err)
	}
	return result
}

/* run executes the handler in its own goroutine so a slow handler cannot
 * block the inbound request past the timeout. A timed-out handler may still
 * complete its side effects later; handlers must tolerate re-invocation.
 */
func (d *Dispatcher) run(ctx context.Context, handler Handler, delivery Delivery) error {
	runCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- fmt.Errorf("handler panic: %v", rec)
			}
		}()
		done <- handler.Handle(runCtx, delivery)
	}()

	select {
	case err := <-done:
		return err
	case <-runCtx.Done():
		if runCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("handler timeout")
		}
		return runCtx.Err()
	}
}
