package driver

import (
	"github.com/rs/zerolog"

	"bashguard/internal/ast"
	"bashguard/internal/diag"
	"bashguard/internal/observ"
	"bashguard/internal/rules"
	"bashguard/internal/source"
	"bashguard/internal/symbols"
)

// DefaultMaxDiagnostics caps the per-file diagnostic count when the caller
// does not say otherwise.
const DefaultMaxDiagnostics = 1000

// Options configures analysis. The zero value is usable: default registry,
// no severity floor, default diagnostic cap, GOMAXPROCS workers.
type Options struct {
	// Registry is the rule table; nil selects rules.Default().
	Registry *rules.Registry
	// Enable and Disable filter the registry by ID, group name or glob.
	// Disable wins.
	Enable  []string
	Disable []string
	// SeverityFloor drops findings below it. Lexer and parser errors are
	// never dropped.
	SeverityFloor diag.Severity
	// MaxDiagnostics caps the output; 0 means DefaultMaxDiagnostics.
	MaxDiagnostics int
	// Jobs bounds rule-evaluation and batch workers; 0 means GOMAXPROCS.
	Jobs int
	// Log receives engine events (rule panics, cache faults). The zero
	// value discards them.
	Log zerolog.Logger
	// Cache, when set, memoizes per-file diagnostics keyed by content and
	// rule configuration. It is transparent: hits and misses produce
	// identical results.
	Cache *DiskCache
	// Timer, when set, records phase durations.
	Timer *observ.Timer
}

func (o Options) registry() *rules.Registry {
	reg := o.Registry
	if reg == nil {
		reg = rules.Default()
	}
	if len(o.Enable) > 0 || len(o.Disable) > 0 {
		reg = reg.Filter(o.Enable, o.Disable)
	}
	return reg
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return DefaultMaxDiagnostics
}

// Result is the outcome of analyzing one script.
type Result struct {
	FileID  source.FileID
	Script  *ast.Script
	Symbols *symbols.Table
	// Diags holds lexer, parser and rule findings, deduplicated and sorted
	// by span.
	Diags []diag.Diagnostic
}

// HasErrors reports whether any diagnostic is an error (broken syntax or an
// error-severity rule finding).
func (r *Result) HasErrors() bool {
	for i := range r.Diags {
		if r.Diags[i].Severity == diag.SevError {
			return true
		}
	}
	return false
}
