package metrics

import (
	"context"
	"fmt"
	"time"
)

/* StoreCollector implements Collector over the Payload Store
 * The consumer-side interface keeps this package decoupled from the
 * concrete store implementations
 */

// StatsStore is the slice of the Payload Store this collector needs
type StatsStore interface {
	StatusCounts(ctx context.Context) (map[string]int64, error)
	ProcessedSince(ctx context.Context, since time.Time) (int64, error)
}

type StoreCollector struct {
	store StatsStore
}

// NewStoreCollector creates a collector over the given store
func NewStoreCollector(store StatsStore) *StoreCollector {
	return &StoreCollector{store: store}
}

// Collect gathers all metrics from the store
func (c *StoreCollector) Collect(ctx context.Context) (Metrics, error) {
	statusCounts, err := c.GetStatusCounts(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting status counts: %w", err)
	}

	throughput, err := c.GetThroughput(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting throughput: %w", err)
	}

	return Metrics{
		StatusCounts: statusCounts,
		Throughput:   throughput,
		Timestamp:    time.Now(),
	}, nil
}

// GetStatusCounts returns record counts grouped by status
func (c *StoreCollector) GetStatusCounts(ctx context.Context) (map[string]int64, error) {
	return c.store.StatusCounts(ctx)
}

// GetThroughput returns processed-record counts over recent windows
func (c *StoreCollector) GetThroughput(ctx context.Context) (ThroughputMetrics, error) {
	now := time.Now()

	lastMinute, err := c.store.ProcessedSince(ctx, now.Add(-1*time.Minute))
	if err != nil {
		return ThroughputMetrics{}, fmt.Errorf("counting last minute: %w", err)
	}
	lastFive, err := c.store.ProcessedSince(ctx, now.Add(-5*time.Minute))
	if err != nil {
		return ThroughputMetrics{}, fmt.Errorf("counting last five minutes: %w", err)
	}
	lastFifteen, err := c.store.ProcessedSince(ctx, now.Add(-15*time.Minute))
	if err != nil {
		return ThroughputMetrics{}, fmt.Errorf("counting last fifteen minutes: %w", err)
	}

	return ThroughputMetrics{
		LastMinute:         lastMinute,
		LastFiveMinutes:    lastFive,
		LastFifteenMinutes: lastFifteen,
	}, nil
}
