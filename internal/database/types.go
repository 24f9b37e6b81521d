// Package database provides Postgres access for detection rules and
// recorded alerts.
package database

import (
	"time"
)

// Alert represents a persisted alert record. Username, SourceIP and Action
// are nullable because the triggering event may not carry them.
type Alert struct {
	AlertID   string    `json:"alert_id"`
	Timestamp time.Time `json:"timestamp"`
	Username  *string   `json:"username"`
	SourceIP  *string   `json:"source_ip"`
	Action    *string   `json:"action"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	RuleName  string    `json:"rule_name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// AlertListResult contains paginated alert results.
type AlertListResult struct {
	Alerts []*Alert `json:"alerts"`
	Total  int64    `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

// AlertFilter narrows alert listing and counting queries. Nil fields are
// not applied.
type AlertFilter struct {
	Status *string
	From   *time.Time
	To     *time.Time
}
