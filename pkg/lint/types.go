package lint

import (
	"fmt"
	"strings"
)

// Severity indicates the importance of a diagnostic.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityError marks a grammar that cannot generate as intended.
	SeverityError Severity = iota
	// SeverityWarning marks a construct the generator silently recovers from.
	SeverityWarning
	// SeverityInfo marks behaviour worth knowing about.
	SeverityInfo
	// SeverityHint marks a cleanup suggestion.
	SeverityHint
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarning and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	case "hint":
		return SeverityHint, true
	default:
		return SeverityWarning, false
	}
}

// SourcePattern is the Diagnostic.Source of findings in the main pattern.
const SourcePattern = "pattern"

// Diagnostic is one lint finding.
type Diagnostic struct {
	RuleID   string   `json:"rule_id"`
	Severity Severity `json:"severity"`
	Source   string   `json:"source"` // SourcePattern or a definition name
	Offset   int      `json:"offset"` // byte offset into the source text, -1 when not positional
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Offset < 0 {
		return fmt.Sprintf("%s: %s %s: %s", d.Source, d.Severity, d.RuleID, d.Message)
	}
	return fmt.Sprintf("%s:%d: %s %s: %s", d.Source, d.Offset, d.Severity, d.RuleID, d.Message)
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
