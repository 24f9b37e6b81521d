package database

import (
	"context"
	"fmt"

	"secmon/internal/rules"
)

// LoadActiveRules retrieves all enabled detection rules in load order
// (oldest first). Disabled rules never reach the matcher. A failure here is
// a fatal startup error for the engine: it must not run with an
// empty-due-to-error or partial rule set silently.
func (db *DB) LoadActiveRules(ctx context.Context) ([]rules.Rule, error) {
	query := `
		SELECT rule_id, name, kind, field, value, severity, enabled, created_at, updated_at
		FROM rules
		WHERE enabled = TRUE
		ORDER BY created_at ASC
	`
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load active rules: %w", err)
	}
	defer rows.Close()

	var active []rules.Rule
	for rows.Next() {
		var rule rules.Rule
		if err := rows.Scan(
			&rule.RuleID,
			&rule.Name,
			&rule.Kind,
			&rule.Field,
			&rule.Value,
			&rule.Severity,
			&rule.Enabled,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		active = append(active, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	return active, nil
}
