package rules

import (
	"path"

	"bashguard/internal/ast"
	"bashguard/internal/diag"
	"bashguard/internal/source"
	"bashguard/internal/symbols"
)

// Input bundles everything a rule may consult: the file, the parsed tree,
// and the resolved symbol table. All of it is read-only; rules are pure
// functions of Input and the node under inspection.
type Input struct {
	File    *source.File
	Script  *ast.Script
	Symbols *symbols.Table

	inFunction map[ast.Node]bool
}

// NewInput prepares rule input, precomputing the inside-a-function set so
// rules like VAR3002 stay pure per-node checks.
func NewInput(file *source.File, script *ast.Script, table *symbols.Table) *Input {
	in := &Input{
		File:       file,
		Script:     script,
		Symbols:    table,
		inFunction: make(map[ast.Node]bool),
	}
	ast.Walk(script, func(n ast.Node) bool {
		if fn, ok := n.(*ast.Function); ok {
			ast.Walk(fn.Body, func(inner ast.Node) bool {
				in.inFunction[inner] = true
				return true
			})
			return false
		}
		return true
	})
	return in
}

// InsideFunction reports whether the node sits inside a function body.
func (in *Input) InsideFunction(n ast.Node) bool {
	return in.inFunction[n]
}

// Text returns the source text under a span.
func (in *Input) Text(sp source.Span) string {
	return string(in.File.Content[sp.Start:sp.End])
}

// Emit receives rule findings.
type Emit func(diag.Diagnostic)

// Rule is one pure check. Kinds restricts which nodes Check sees; an empty
// list means every node. Tier is the static safety classification stamped on
// every fix the rule emits; it never changes at runtime.
type Rule struct {
	Code  diag.Code
	Tier  diag.FixTier
	Kinds []ast.NodeKind
	Check func(in *Input, n ast.Node, emit Emit)
}

func (r Rule) wants(kind ast.NodeKind) bool {
	if len(r.Kinds) == 0 {
		return true
	}
	for _, k := range r.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Registry is the flat rule table. There is no hierarchy and no inter-rule
// dependency; evaluation order never affects output.
type Registry struct {
	rules []Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a rule.
func (reg *Registry) Register(r Rule) {
	reg.rules = append(reg.rules, r)
}

// Rules returns the registered rules in registration order.
func (reg *Registry) Rules() []Rule {
	return reg.rules
}

// Len returns the number of registered rules.
func (reg *Registry) Len() int {
	return len(reg.rules)
}

// Filter returns a registry restricted by enable/disable patterns. A pattern
// matches a rule by exact ID ("QUO4001"), group name ("security"), or glob
// over the ID ("SEC7*"). Empty enable keeps everything; disable wins over
// enable.
func (reg *Registry) Filter(enable, disable []string) *Registry {
	out := NewRegistry()
	for _, r := range reg.rules {
		if len(enable) > 0 && !matchesAny(r.Code, enable) {
			continue
		}
		if matchesAny(r.Code, disable) {
			continue
		}
		out.Register(r)
	}
	return out
}

func matchesAny(code diag.Code, patterns []string) bool {
	for _, p := range patterns {
		if p == code.ID() || p == code.Group() {
			return true
		}
		if ok, err := path.Match(p, code.ID()); err == nil && ok {
			return true
		}
	}
	return false
}

// Default returns the registry with every built-in rule.
func Default() *Registry {
	reg := NewRegistry()
	registerVarRules(reg)
	registerQuotingRules(reg)
	registerDeterminismRules(reg)
	registerIdempotencyRules(reg)
	registerSecurityRules(reg)
	registerPerfRules(reg)
	return reg
}
