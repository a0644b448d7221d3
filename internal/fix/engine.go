package fix

import (
	"errors"
	"sort"

	"bashguard/internal/diag"
)

// ErrNoFixes is returned when nothing could be applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// Applied records one successfully applied fix.
type Applied struct {
	Code      diag.Code
	Title     string
	Tier      diag.FixTier
	EditCount int
}

// Skipped records a fix that was considered and rejected, with the reason.
type Skipped struct {
	Code   diag.Code
	Title  string
	Reason string
}

// Result is the outcome of one Apply call.
type Result struct {
	// Content is the rewritten source. It equals the input when nothing
	// applied.
	Content []byte
	Applied []Applied
	Skipped []Skipped
}

// Changed reports whether Apply modified the source.
func (r *Result) Changed() bool {
	return len(r.Applied) > 0
}

type candidate struct {
	d     diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply is a pure function from source bytes and diagnostics to rewritten
// bytes. For each diagnostic it takes the best fix at or below maxTier
// (FixUnsafe is clamped away: unsafe fixes are never applied, whatever the
// caller asks for), verifies every edit's OldText guard against the input,
// rejects fixes whose edits overlap an already accepted fix, and applies the
// survivors.
//
// Apply is idempotent by construction: running analysis on the output and
// applying again changes nothing, because the rewritten text no longer
// matches either the rules or the OldText guards.
func Apply(src []byte, diags []diag.Diagnostic, maxTier diag.FixTier) *Result {
	if maxTier > diag.FixSafeWithAssumptions {
		maxTier = diag.FixSafeWithAssumptions
	}
	res := &Result{Content: src}

	cands := gather(diags, maxTier)
	if len(cands) == 0 {
		return res
	}
	sortCandidates(cands)

	var accepted []diag.TextEdit
	var apply []diag.TextEdit
	for _, c := range cands {
		reason := ""
		for _, e := range c.fix.Edits {
			if int(e.Span.End) > len(src) || e.Span.End < e.Span.Start {
				reason = "edit span out of range"
				break
			}
			if string(src[e.Span.Start:e.Span.End]) != e.OldText {
				reason = "source text no longer matches the fix"
				break
			}
			if conflicts(accepted, e) {
				reason = "overlaps an already accepted fix"
				break
			}
		}
		if reason != "" {
			res.Skipped = append(res.Skipped, Skipped{
				Code:   c.d.Code,
				Title:  c.fix.Title,
				Reason: reason,
			})
			continue
		}
		accepted = append(accepted, c.fix.Edits...)
		apply = append(apply, c.fix.Edits...)
		res.Applied = append(res.Applied, Applied{
			Code:      c.d.Code,
			Title:     c.fix.Title,
			Tier:      c.fix.Tier,
			EditCount: len(c.fix.Edits),
		})
	}
	if len(apply) == 0 {
		return res
	}

	// Apply back to front so earlier offsets stay valid.
	sort.SliceStable(apply, func(i, j int) bool {
		if apply[i].Span.Start != apply[j].Span.Start {
			return apply[i].Span.Start > apply[j].Span.Start
		}
		return apply[i].Span.End > apply[j].Span.End
	})
	out := append([]byte(nil), src...)
	for _, e := range apply {
		tail := append([]byte(nil), out[e.Span.End:]...)
		out = append(append(out[:e.Span.Start], []byte(e.NewText)...), tail...)
	}
	res.Content = out
	return res
}

// gather selects, per diagnostic, the first fix within the tier budget.
func gather(diags []diag.Diagnostic, maxTier diag.FixTier) []candidate {
	var cands []candidate
	for i, d := range diags {
		f, ok := d.PreferredFix(maxTier)
		if !ok || len(f.Edits) == 0 {
			continue
		}
		cands = append(cands, candidate{d: d, fix: f, order: i})
	}
	return cands
}

// sortCandidates orders candidates by primary span, then code, then input
// order, so the accepted set does not depend on how the caller produced the
// diagnostics.
func sortCandidates(cands []candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		di, dj := cands[i].d, cands[j].d
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return cands[i].order < cands[j].order
	})
}

func conflicts(accepted []diag.TextEdit, e diag.TextEdit) bool {
	for _, prev := range accepted {
		if editsOverlap(prev, e) {
			return true
		}
	}
	return false
}

// editsOverlap treats spans as half-open [Start, End). Two zero-width edits
// at the same position conflict (their ordering would be ambiguous); a
// zero-width edit conflicts with a span containing its position; non-empty
// spans conflict when they intersect.
func editsOverlap(a, b diag.TextEdit) bool {
	if a.Span.Start == a.Span.End && b.Span.Start == b.Span.End {
		return a.Span.Start == b.Span.Start
	}
	if a.Span.Start == a.Span.End {
		return a.Span.Start > b.Span.Start && a.Span.Start < b.Span.End
	}
	if b.Span.Start == b.Span.End {
		return b.Span.Start > a.Span.Start && b.Span.Start < a.Span.End
	}
	return a.Span.Start < b.Span.End && b.Span.Start < a.Span.End
}
