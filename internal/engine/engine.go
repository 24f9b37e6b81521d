// Package engine provides the alert engine loop: it pops security events
// from the event source, evaluates them against the rule snapshot loaded at
// startup, and records every match as an alert.
package engine

import (
	"context"
	"log/slog"
	"time"

	"secmon/internal/events"
	"secmon/internal/rules"
)

// DefaultPollInterval is how long the loop pauses when the queue is empty.
const DefaultPollInterval = time.Second

// EventSource supplies serialized events head-first. Pop must not block
// when the queue is empty; it reports ok=false instead.
type EventSource interface {
	Pop(ctx context.Context) (payload string, ok bool, err error)
}

// AlertStore persists alert drafts and assigns durable identifiers.
type AlertStore interface {
	InsertAlert(ctx context.Context, draft events.AlertDraft) (string, error)
}

// AlertPublisher fans out created alerts to downstream consumers.
type AlertPublisher interface {
	Publish(ctx context.Context, created *events.AlertCreated) error
}

// MetricsRecorder records engine counters. The null object pattern avoids
// nil checks at every call site.
type MetricsRecorder interface {
	RecordReceived()
	RecordProcessed(latency time.Duration)
	RecordAlert()
	RecordError()
	IncrementCustom(name string)
}

// NoOpMetrics is a no-op implementation of MetricsRecorder.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordReceived()               {}
func (NoOpMetrics) RecordProcessed(time.Duration) {}
func (NoOpMetrics) RecordAlert()                  {}
func (NoOpMetrics) RecordError()                  {}
func (NoOpMetrics) IncrementCustom(string)        {}

// Engine orchestrates the event source, rule matcher and alert store.
// The rule snapshot is read-only after construction; rule changes require
// a restart.
type Engine struct {
	source       EventSource
	store        AlertStore
	publisher    AlertPublisher // nil disables fan-out
	metrics      MetricsRecorder
	ruleSet      []rules.Rule
	pollInterval time.Duration
	now          func() time.Time
}

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithPublisher enables alert.created fan-out after successful inserts.
func WithPublisher(p AlertPublisher) Option {
	return func(e *Engine) {
		e.publisher = p
	}
}

// WithMetrics sets a custom metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithPollInterval overrides the empty-queue pause.
func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.pollInterval = d
		}
	}
}

// withClock injects a fixed clock for tests.
func withClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an engine over the given collaborators and rule snapshot.
func New(source EventSource, store AlertStore, ruleSet []rules.Rule, opts ...Option) *Engine {
	e := &Engine{
		source:       source,
		store:        store,
		metrics:      NoOpMetrics{},
		ruleSet:      ruleSet,
		pollInterval: DefaultPollInterval,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the engine loop until the context is cancelled. Each cycle
// pops at most one event; matching and recording for that event complete
// before the next pop. No event-processing error terminates the loop.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("Starting alert engine loop",
		"rules_count", len(e.ruleSet),
		"poll_interval", e.pollInterval,
	)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Alert engine loop stopped")
			return nil
		default:
		}

		payload, ok, err := e.source.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("Alert engine loop stopped")
				return nil
			}
			slog.Error("Failed to pop event", "error", err)
			e.metrics.RecordError()
			e.pause(ctx)
			continue
		}
		if !ok {
			// Queue empty: the only intentional yield point.
			e.pause(ctx)
			continue
		}

		e.processOne(ctx, payload)
	}
}

// pause sleeps for the poll interval or until the context is cancelled.
func (e *Engine) pause(ctx context.Context) {
	timer := time.NewTimer(e.pollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
