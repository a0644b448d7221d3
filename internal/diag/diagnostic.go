package diag

import (
	"bashguard/internal/source"
)

// Note is a secondary span/message pair adding context to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one reported finding.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

// PreferredFix returns the first fix at or below the given tier, if any.
func (d Diagnostic) PreferredFix(tier FixTier) (Fix, bool) {
	for _, f := range d.Fixes {
		if f.Tier <= tier {
			return f, true
		}
	}
	return Fix{}, false
}
