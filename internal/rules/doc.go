// Package rules holds the built-in checks and the evaluator that runs them.
//
// The registry is a flat table: every rule is a pure function of the
// analysis input and one AST node, keyed by the node kinds it cares about.
// There is no rule ordering, no shared state, and no inter-rule
// communication; the evaluator may run them in any order on any number of
// workers and the merged output is always the same.
//
// Each rule owns one diagnostic code and one static fix tier. The tier is
// part of the rule's definition: a rule that emits a quoting fix emits it as
// FixSafe every time, a rule whose rewrite needs a human-checkable
// assumption stamps FixSafeWithAssumptions, and rules whose findings have no
// mechanical fix emit FixUnsafe alternatives. Nothing downstream ever
// re-classifies a fix.
package rules
