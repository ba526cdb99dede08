// Package tool provides the domain model for dispatcher tools.
package tool

// RiskLevel indicates the potential impact of a tool execution.
type RiskLevel int

const (
	RiskNone   RiskLevel = iota // purely informational
	RiskLow                     // reversible changes
	RiskMedium                  // may require cleanup
	RiskHigh                    // discards data, hard to reverse
)

// String returns the string representation of the risk level.
func (r RiskLevel) String() string {
	switch r {
	case RiskNone:
		return "none"
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Annotations describe tool behavior for confirmation gating and retry
// decisions.
type Annotations struct {
	// ReadOnly indicates the tool has no side effects.
	ReadOnly bool `json:"read_only"`

	// Destructive indicates the tool may discard prior content.
	Destructive bool `json:"destructive"`

	// Idempotent indicates repeated calls with the same input converge.
	Idempotent bool `json:"idempotent"`

	// RequiresConfirmation indicates the tool routes through the
	// confirmation gate before executing.
	RequiresConfirmation bool `json:"requires_confirmation"`

	// RiskLevel indicates the potential impact of execution.
	RiskLevel RiskLevel `json:"risk_level"`
}

// DefaultAnnotations returns annotations with safe defaults.
func DefaultAnnotations() Annotations {
	return Annotations{RiskLevel: RiskLow}
}

// CanRetry returns true if the tool can be safely retried on failure.
func (a Annotations) CanRetry() bool {
	return a.Idempotent || a.ReadOnly
}
