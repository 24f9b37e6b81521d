// Package handlers provides HTTP handlers for the alerts read API.
package handlers

import (
	"secmon/internal/database"
	"secmon/internal/metrics"
)

// Handlers wraps dependencies for HTTP handlers.
type Handlers struct {
	db      AlertReader
	metrics MetricsRecorder
}

// NewHandlers creates a new handlers instance.
// If metricsCollector is nil, a no-op implementation is used.
func NewHandlers(db *database.DB, metricsCollector *metrics.Collector) *Handlers {
	h := &Handlers{
		db:      db,
		metrics: NoOpMetrics{}, // Default to no-op, never nil
	}
	if metricsCollector != nil {
		h.metrics = metricsCollector
	}
	return h
}

// NewHandlersWithDeps creates handlers with explicit interface dependencies.
// This constructor is primarily for testing.
func NewHandlersWithDeps(db AlertReader, m MetricsRecorder) *Handlers {
	if m == nil {
		m = NoOpMetrics{}
	}
	return &Handlers{
		db:      db,
		metrics: m,
	}
}

// Metrics returns the metrics recorder for middleware use.
func (h *Handlers) Metrics() MetricsRecorder {
	return h.metrics
}
