package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"secmon/internal/events"
)

// insertTimeout bounds a single alert write so one slow insert cannot
// stall the engine loop indefinitely.
const insertTimeout = 10 * time.Second

// nullable converts an empty string to a NULL value so listings can
// distinguish an absent event field from an empty one.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// InsertAlert persists an alert draft and returns the generated alert_id.
// Inserts are never deduplicated: every (event, matching rule) pair records
// a fresh row. A failure is recoverable for that single alert only.
func (db *DB) InsertAlert(ctx context.Context, draft events.AlertDraft) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, insertTimeout)
	defer cancel()

	query := `
		INSERT INTO alerts (timestamp, username, source_ip, action, severity, message, rule_name, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'open')
		RETURNING alert_id
	`
	var alertID string
	err := db.conn.QueryRowContext(ctx, query,
		draft.Timestamp,
		nullable(draft.Username),
		nullable(draft.SourceIP),
		nullable(draft.Action),
		draft.Severity,
		draft.Message,
		draft.RuleName,
	).Scan(&alertID)
	if err != nil {
		return "", fmt.Errorf("failed to insert alert: %w", err)
	}
	return alertID, nil
}

// whereClause builds the WHERE clause and arguments for an alert filter.
// Returns an empty string when no filter applies.
func whereClause(filter AlertFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("timestamp <= $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}

	clause := " WHERE " + conditions[0]
	for _, cond := range conditions[1:] {
		clause += " AND " + cond
	}
	return clause, args
}

// ListAlerts retrieves alerts most-recent-first with pagination, optionally
// filtered by status and timestamp range.
func (db *DB) ListAlerts(ctx context.Context, filter AlertFilter, limit, offset int) (*AlertListResult, error) {
	clause, args := whereClause(filter)

	countQuery := "SELECT COUNT(*) FROM alerts" + clause
	var total int64
	if err := db.conn.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count alerts: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT alert_id, timestamp, username, source_ip, action, severity, message, rule_name, status, created_at
		FROM alerts%s
		ORDER BY timestamp DESC
		LIMIT $%d OFFSET $%d
	`, clause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*Alert
	for rows.Next() {
		var alert Alert
		var username, sourceIP, action sql.NullString
		if err := rows.Scan(
			&alert.AlertID,
			&alert.Timestamp,
			&username,
			&sourceIP,
			&action,
			&alert.Severity,
			&alert.Message,
			&alert.RuleName,
			&alert.Status,
			&alert.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		if username.Valid {
			alert.Username = &username.String
		}
		if sourceIP.Valid {
			alert.SourceIP = &sourceIP.String
		}
		if action.Valid {
			alert.Action = &action.String
		}
		alerts = append(alerts, &alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read alerts: %w", err)
	}

	return &AlertListResult{
		Alerts: alerts,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// CountAlertsSince returns the number of alerts with timestamp at or after
// the given moment, optionally filtered by status.
func (db *DB) CountAlertsSince(ctx context.Context, since time.Time, status *string) (int64, error) {
	filter := AlertFilter{From: &since, Status: status}
	clause, args := whereClause(filter)

	var count int64
	query := "SELECT COUNT(*) FROM alerts" + clause
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count alerts: %w", err)
	}
	return count, nil
}
