package driver

import (
	"context"

	"bashguard/internal/diag"
	"bashguard/internal/fix"
)

// ApplyFixes rewrites src by applying fixes from diags at or below tier.
// It is pure and idempotent: rerunning on its own output with the same
// diagnostics changes nothing, and unsafe fixes never apply.
func ApplyFixes(src []byte, diags []diag.Diagnostic, tier diag.FixTier) *fix.Result {
	return fix.Apply(src, diags, tier)
}

// FixSource analyzes src and applies the resulting fixes in one step. The
// returned diagnostics are the pre-fix findings, so callers can report what
// was (and was not) addressed.
func FixSource(ctx context.Context, name string, src []byte, tier diag.FixTier, opts Options) (*fix.Result, []diag.Diagnostic) {
	_, res := AnalyzeSource(ctx, name, src, opts)
	return fix.Apply(src, res.Diags, tier), res.Diags
}
