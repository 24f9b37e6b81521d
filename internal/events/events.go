// Package events defines the security event structure consumed from the
// event queue and the alert.created payload published after an alert is
// recorded.
package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is one security event decoded from a queue payload. Events carry
// arbitrary key/value attributes; no schema is enforced beyond valid JSON.
// Recognized keys include "username", "source_ip", "action" and one of
// "@timestamp"/"timestamp".
type Event map[string]interface{}

// Decode parses a raw queue payload into an Event.
// Returns an error if the payload is not a valid JSON object.
func Decode(payload string) (Event, error) {
	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, fmt.Errorf("failed to decode event payload: %w", err)
	}
	return event, nil
}

// StringField returns the string value of a field, or "" if the field is
// absent or not a string. Missing fields are absent, not errors.
func (e Event) StringField(name string) string {
	value, ok := e[name]
	if !ok {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return s
}

// Timestamp derives the event timestamp: "@timestamp" first, then
// "timestamp", then the supplied wall-clock time formatted as RFC 3339 UTC.
// The first non-absent value wins and is returned verbatim.
func (e Event) Timestamp(now time.Time) string {
	if ts := e.StringField("@timestamp"); ts != "" {
		return ts
	}
	if ts := e.StringField("timestamp"); ts != "" {
		return ts
	}
	return now.UTC().Format(time.RFC3339)
}

// AlertDraft is an alert produced by rule evaluation before it has been
// persisted. Username, SourceIP and Action are copied verbatim from the
// triggering event; empty string means the field was absent.
type AlertDraft struct {
	Timestamp string
	Username  string
	SourceIP  string
	Action    string
	Severity  string
	Message   string
	RuleName  string
}

// AlertCreated is the fan-out payload published to the alert.created topic
// after an alert has been persisted. Downstream consumers (notification
// services, dashboards) subscribe to this topic.
type AlertCreated struct {
	AlertID   string `json:"alert_id"`
	Timestamp string `json:"timestamp"`
	Username  string `json:"username,omitempty"`
	SourceIP  string `json:"source_ip,omitempty"`
	Action    string `json:"action,omitempty"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	RuleName  string `json:"rule_name"`
	Status    string `json:"status"`
}
