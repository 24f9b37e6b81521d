package engine

import (
	"context"
	"log/slog"

	"secmon/internal/events"
	"secmon/internal/matcher"
)

// processResult contains the outcome of processing a single event.
type processResult struct {
	// dropped is true when the payload could not be decoded. Dropped
	// events are never requeued.
	dropped bool
	// alertsRecorded is the number of alerts successfully persisted.
	alertsRecorded int
	// alertErrors is the number of drafts that failed to persist or
	// publish. Failures are per-alert and never halt the loop.
	alertErrors int
}

// processOne handles a single event payload: decode, match against the
// rule snapshot, record every resulting draft. One alert failing does not
// block the others.
func (e *Engine) processOne(ctx context.Context, payload string) processResult {
	startTime := e.now()
	e.metrics.RecordReceived()

	var result processResult

	event, err := events.Decode(payload)
	if err != nil {
		// Permanently malformed: dropped without retry.
		slog.Warn("Invalid event payload, skipping",
			"error", err,
			"payload", payload,
		)
		e.metrics.IncrementCustom("events_dropped")
		result.dropped = true
		return result
	}

	drafts := matcher.Evaluate(event, e.ruleSet, e.now())
	if len(drafts) == 0 {
		e.metrics.RecordProcessed(e.now().Sub(startTime))
		e.metrics.IncrementCustom("events_unmatched")
		return result
	}

	for _, draft := range drafts {
		alertID, err := e.store.InsertAlert(ctx, draft)
		if err != nil {
			slog.Error("Failed to record alert",
				"rule_name", draft.RuleName,
				"error", err,
			)
			e.metrics.RecordError()
			result.alertErrors++
			continue
		}

		result.alertsRecorded++
		e.metrics.RecordAlert()
		slog.Info("Alert created",
			"alert_id", alertID,
			"rule_name", draft.RuleName,
			"severity", draft.Severity,
			"username", draft.Username,
			"source_ip", draft.SourceIP,
		)

		if e.publisher == nil {
			continue
		}
		created := &events.AlertCreated{
			AlertID:   alertID,
			Timestamp: draft.Timestamp,
			Username:  draft.Username,
			SourceIP:  draft.SourceIP,
			Action:    draft.Action,
			Severity:  draft.Severity,
			Message:   draft.Message,
			RuleName:  draft.RuleName,
			Status:    "open",
		}
		if err := e.publisher.Publish(ctx, created); err != nil {
			// Fan-out is best-effort; the alert is already recorded.
			slog.Error("Failed to publish created alert",
				"alert_id", alertID,
				"rule_name", draft.RuleName,
				"error", err,
			)
			e.metrics.RecordError()
			result.alertErrors++
		}
	}

	e.metrics.RecordProcessed(e.now().Sub(startTime))
	return result
}
