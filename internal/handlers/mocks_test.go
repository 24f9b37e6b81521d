// Package handlers provides test mocks for handler dependencies.
package handlers

import (
	"context"
	"time"

	"secmon/internal/database"
)

// mockAlertReader implements AlertReader for testing.
type mockAlertReader struct {
	// Callbacks for each method (set these to control behavior)
	ListAlertsFn       func(ctx context.Context, filter database.AlertFilter, limit, offset int) (*database.AlertListResult, error)
	CountAlertsSinceFn func(ctx context.Context, since time.Time, status *string) (int64, error)
}

func (m *mockAlertReader) ListAlerts(ctx context.Context, filter database.AlertFilter, limit, offset int) (*database.AlertListResult, error) {
	if m.ListAlertsFn != nil {
		return m.ListAlertsFn(ctx, filter, limit, offset)
	}
	return &database.AlertListResult{Alerts: []*database.Alert{}, Total: 0, Limit: limit, Offset: offset}, nil
}

func (m *mockAlertReader) CountAlertsSince(ctx context.Context, since time.Time, status *string) (int64, error) {
	if m.CountAlertsSinceFn != nil {
		return m.CountAlertsSinceFn(ctx, since, status)
	}
	return 0, nil
}

func (m *mockAlertReader) Close() error {
	return nil
}
