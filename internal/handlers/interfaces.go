// Package handlers provides HTTP handlers for the alerts read API.
package handlers

import (
	"context"
	"time"

	"secmon/internal/database"
)

// AlertReader defines the read interface over recorded alerts.
// This allows handlers to be tested without a real database.
type AlertReader interface {
	ListAlerts(ctx context.Context, filter database.AlertFilter, limit, offset int) (*database.AlertListResult, error)
	CountAlertsSince(ctx context.Context, since time.Time, status *string) (int64, error)

	// Lifecycle
	Close() error
}

// MetricsRecorder defines the interface for recording metrics.
// This uses the null object pattern - a no-op implementation avoids nil checks.
type MetricsRecorder interface {
	RecordReceived()
	RecordProcessed(latency time.Duration)
	RecordError()
	IncrementCustom(name string)
}

// NoOpMetrics is a no-op implementation of MetricsRecorder.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordReceived()               {}
func (NoOpMetrics) RecordProcessed(time.Duration) {}
func (NoOpMetrics) RecordError()                  {}
func (NoOpMetrics) IncrementCustom(string)        {}
