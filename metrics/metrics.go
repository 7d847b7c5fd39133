package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the gateway.
type Metrics struct {
	// StatusCounts maps status name to count of records in that status
	StatusCounts map[string]int64 `json:"status_counts"`

	// Throughput represents records processed per time window
	Throughput ThroughputMetrics `json:"throughput"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// ThroughputMetrics represents records processed over different time windows.
type ThroughputMetrics struct {
	// LastMinute is records processed in the last 1 minute
	LastMinute int64 `json:"last_minute"`

	// LastFiveMinutes is records processed in the last 5 minutes
	LastFiveMinutes int64 `json:"last_five_minutes"`

	// LastFifteenMinutes is records processed in the last 15 minutes
	LastFifteenMinutes int64 `json:"last_fifteen_minutes"`
}

// Collector defines the interface for collecting metrics from the gateway.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Metrics, error)

	// GetStatusCounts returns record counts grouped by status
	GetStatusCounts(ctx context.Context) (map[string]int64, error)

	// GetThroughput returns processed-record counts over recent windows
	GetThroughput(ctx context.Context) (ThroughputMetrics, error)
}
