package rules

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"bashguard/internal/ast"
	"bashguard/internal/diag"
)

// Evaluator runs a registry against one analyzed file. Rules are pure, so
// they shard freely across workers; findings are merged in registration
// order and the result is independent of scheduling.
type Evaluator struct {
	Registry *Registry
	// Jobs bounds the worker count; 0 means GOMAXPROCS.
	Jobs int
	// Log receives rule-panic events. The zero value discards them.
	Log zerolog.Logger
}

// Run evaluates every rule over every matching node and returns the merged,
// unsorted findings. A panicking rule is recovered and logged; only its
// output for the offending node is discarded, every other (rule, node) pair
// still reports.
func (e *Evaluator) Run(ctx context.Context, in *Input) []diag.Diagnostic {
	rules := e.Registry.Rules()
	if len(rules) == 0 {
		return nil
	}

	var nodes []ast.Node
	ast.Walk(in.Script, func(n ast.Node) bool {
		nodes = append(nodes, n)
		return true
	})

	jobs := e.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([][]diag.Diagnostic, len(rules))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, rl := range rules {
		i, rl := i, rl
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.runRule(rl, in, nodes)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil
	}

	var out []diag.Diagnostic
	for _, rs := range results {
		out = append(out, rs...)
	}
	return out
}

func (e *Evaluator) runRule(rl Rule, in *Input, nodes []ast.Node) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, n := range nodes {
		if !rl.wants(n.Kind()) {
			continue
		}
		out = append(out, e.checkNode(rl, in, n)...)
	}
	return out
}

// checkNode runs one rule on one node, recovering panics so a buggy rule
// degrades to a logged event instead of a crashed analysis.
func (e *Evaluator) checkNode(rl Rule, in *Input, n ast.Node) (out []diag.Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			e.Log.Warn().
				Str("rule", rl.Code.ID()).
				Str("node", n.Kind().String()).
				Uint32("offset", n.Span().Start).
				Interface("panic", r).
				Msg("rule panicked; findings for this node discarded")
			out = nil
		}
	}()
	rl.Check(in, n, func(d diag.Diagnostic) {
		out = append(out, d)
	})
	return out
}
