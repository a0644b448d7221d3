// Package ast defines the syntax tree for shell scripts. Nodes form a plain
// pointer tree: every node owns its children, carries a file-absolute span,
// and holds the lexical-context stack captured at its position. Command
// substitution bodies are full sub-trees, so analyses recurse into them with
// the ordinary Walk.
package ast
