// Package matcher evaluates security events against the loaded rule set
// and produces alert drafts for every match. Evaluation is pure: no I/O,
// no logging, and the clock is injected by the caller.
package matcher

import (
	"fmt"
	"time"

	"secmon/internal/events"
	"secmon/internal/rules"
)

// kindFunc reports whether a rule of its kind matches the event.
type kindFunc func(rule rules.Rule, event events.Event) bool

// kindHandlers maps a rule kind to its matching algorithm. Adding a new
// detection kind means registering a handler here; the engine loop is
// untouched. Rules whose kind has no handler are skipped silently so newer
// rule kinds can be deployed ahead of older engine instances.
var kindHandlers = map[string]kindFunc{
	rules.KindActionMatch: matchAction,
}

// matchAction implements the action_match kind: the event attribute named
// by rule.Field must equal rule.Value exactly. Equality is type-sensitive;
// a rule value only ever compares equal to a JSON string attribute.
func matchAction(rule rules.Rule, event events.Event) bool {
	value, ok := event[rule.Field]
	if !ok {
		return false
	}
	s, ok := value.(string)
	if !ok {
		return false
	}
	return s == rule.Value
}

// Evaluate runs every rule against the event in load order and returns one
// alert draft per match. There is no short-circuiting: all rules are
// checked independently. now supplies the wall-clock fallback for events
// without their own timestamp.
func Evaluate(event events.Event, ruleSet []rules.Rule, now time.Time) []events.AlertDraft {
	var drafts []events.AlertDraft

	for _, rule := range ruleSet {
		handler, ok := kindHandlers[rule.Kind]
		if !ok {
			continue
		}
		if !handler(rule, event) {
			continue
		}

		username := event.StringField("username")
		sourceIP := event.StringField("source_ip")

		drafts = append(drafts, events.AlertDraft{
			Timestamp: event.Timestamp(now),
			Username:  username,
			SourceIP:  sourceIP,
			Action:    event.StringField("action"),
			Severity:  events.SeverityOrDefault(rule.Severity),
			Message:   fmt.Sprintf("Rule '%s' matched for user %s from %s", rule.Name, username, sourceIP),
			RuleName:  rule.Name,
		})
	}

	return drafts
}
