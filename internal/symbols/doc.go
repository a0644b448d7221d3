// Package symbols resolves variable uses to their origins. Resolve walks the
// AST once, in source order, maintaining a chain of scope frames (root,
// function bodies, subshells and command substitutions) and produces an
// immutable Table mapping every expansion to the symbol visible at that
// point. Rules consult the table instead of tracking scopes themselves; the
// origin decides whether a finding is a confident Warning or a hedged Risk.
package symbols
