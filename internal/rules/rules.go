// Package rules defines the detection rule model evaluated against
// incoming security events.
package rules

import (
	"time"
)

// Rule kinds. Each kind selects a matching algorithm; kinds unknown to a
// running engine are skipped during evaluation so that newer rule kinds can
// be deployed ahead of older engine instances.
const (
	// KindActionMatch triggers when event[Field] equals Value exactly.
	KindActionMatch = "action_match"
)

// Rule represents one detection rule. Field and Value parameterize the
// action_match kind; future kinds carry their parameters in the same
// columns or in additions alongside them. Rules are immutable for the
// lifetime of one engine run.
type Rule struct {
	RuleID    string    `json:"rule_id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Field     string    `json:"field"`
	Value     string    `json:"value"`
	Severity  string    `json:"severity"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
