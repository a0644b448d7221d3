package diag

import (
	"bashguard/internal/source"
)

// FixTier is the static safety classification of an automatic rewrite.
// It is assigned at rule-authoring time, never computed dynamically.
//
// Only FixSafe fixes may be applied without operator opt-in;
// FixSafeWithAssumptions requires an explicit flag at the boundary layer;
// FixUnsafe is never auto-applied under any flag. This policy is a hard
// invariant of the engine, not a configurable default.
type FixTier uint8

const (
	// FixSafe marks rewrites that are provably behavior-preserving.
	FixSafe FixTier = iota
	// FixSafeWithAssumptions marks rewrites that preserve behavior under a
	// stated, human-checkable assumption. The assumption text travels with
	// the fix.
	FixSafeWithAssumptions
	// FixUnsafe marks transforms that change control or data flow, or that
	// require disambiguating developer intent. Unsafe fixes carry no edits,
	// only ranked alternative snippets.
	FixUnsafe
)

func (t FixTier) String() string {
	switch t {
	case FixSafe:
		return "safe"
	case FixSafeWithAssumptions:
		return "safe-with-assumptions"
	case FixUnsafe:
		return "unsafe"
	}
	return "unknown"
}

// TextEdit is one concrete replacement. OldText is a guard: the fix engine
// refuses the edit when the current source no longer matches it.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// Fix describes one possible automated correction attached to a diagnostic.
// Fixes are data-only; application lives in internal/fix.
//
// Invariants, enforced by the constructors below:
//   - Tier == FixUnsafe implies len(Edits) == 0.
//   - Assumptions is non-empty exactly when Tier == FixSafeWithAssumptions.
type Fix struct {
	Title        string
	Tier         FixTier
	Assumptions  []string
	Alternatives []string
	Edits        []TextEdit
}

// SafeFix builds a FixSafe fix from edits.
func SafeFix(title string, edits ...TextEdit) Fix {
	return Fix{Title: title, Tier: FixSafe, Edits: edits}
}

// AssumingFix builds a FixSafeWithAssumptions fix carrying its assumptions.
func AssumingFix(title string, assumptions []string, edits ...TextEdit) Fix {
	return Fix{
		Title:       title,
		Tier:        FixSafeWithAssumptions,
		Assumptions: assumptions,
		Edits:       edits,
	}
}

// UnsafeFix builds a FixUnsafe fix that offers alternatives only.
func UnsafeFix(title string, alternatives ...string) Fix {
	return Fix{Title: title, Tier: FixUnsafe, Alternatives: alternatives}
}
