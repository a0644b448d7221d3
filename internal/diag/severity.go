package diag

// Severity defines the importance of a diagnostic.
//
// SevRisk is deliberately distinct from SevWarning and SevError: it marks a
// finding whose correctness depends on runtime context the analyzer cannot
// observe (environment variables, sourced files). Rules must prefer Risk over
// Error whenever intent cannot be proven from the script text alone.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevPerf is for performance findings.
	SevPerf
	// SevWarning is for probable defects.
	SevWarning
	// SevRisk is for findings contingent on unobservable runtime state.
	SevRisk
	// SevError is for definite defects.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevPerf:
		return "PERF"
	case SevWarning:
		return "WARNING"
	case SevRisk:
		return "RISK"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseSeverity maps a config/CLI string to a Severity.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "info":
		return SevInfo, true
	case "perf":
		return SevPerf, true
	case "warning":
		return SevWarning, true
	case "risk":
		return SevRisk, true
	case "error":
		return SevError, true
	default:
		return SevInfo, false
	}
}
