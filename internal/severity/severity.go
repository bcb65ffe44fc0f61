// Package severity provides severity level constants and utilities
// for issues reported by the parser and generator packages.
//
// All four severity levels are exported by each public package that uses them:
//   - SeverityInfo: Informational messages about choices made
//   - SeverityWarning: Recoverable conditions handled with a fallback
//   - SeverityError: Document problems that make generated output unreliable
//   - SeverityCritical: Features that cannot be processed (data loss)
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

// Severity indicates the severity level of an issue during parsing or
// code generation.
type Severity int

const (
	// SeverityError indicates a document problem that makes generated output
	// unreliable, such as a reference that cannot be resolved.
	SeverityError Severity = iota

	// SeverityWarning indicates recoverable conditions that were handled with
	// a fallback but should be addressed, such as composition conflicts.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	// These are non-actionable notices that may be useful for debugging.
	SeverityInfo

	// SeverityCritical indicates features that cannot be processed without data loss.
	// Used when generation must skip or alter functionality.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
