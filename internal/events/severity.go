package events

// Severity labels conventionally attached to alerts, ordered by
// operational priority. Rules may carry other labels; they pass through
// to the alert unchanged.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// DefaultSeverity is applied when a rule carries no severity label.
const DefaultSeverity = SeverityCritical

// SeverityOrDefault returns the rule's severity verbatim, substituting
// DefaultSeverity only when it is empty. The label is never rewritten:
// the alert carries exactly the severity the rule was configured with.
func SeverityOrDefault(sev string) string {
	if sev == "" {
		return DefaultSeverity
	}
	return sev
}
