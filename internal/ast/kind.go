package ast

// NodeKind discriminates AST nodes without type switches in hot paths.
type NodeKind uint8

const (
	KindInvalid NodeKind = iota
	KindScript
	KindCommand
	KindPipeline
	KindAndOr
	KindSubshell
	KindBraceGroup
	KindIf
	KindLoop
	KindCase
	KindCaseBranch
	KindFunction
	KindTestClause
	KindRedirect
	KindAssignment
	KindWord
	KindLit
	KindSingleQuoted
	KindDoubleQuoted
	KindVarExpansion
	KindCmdSubst
	KindArithExpr
	KindHeredoc
)

var kindNames = map[NodeKind]string{
	KindInvalid:      "invalid",
	KindScript:       "script",
	KindCommand:      "command",
	KindPipeline:     "pipeline",
	KindAndOr:        "and-or",
	KindSubshell:     "subshell",
	KindBraceGroup:   "brace-group",
	KindIf:           "if",
	KindLoop:         "loop",
	KindCase:         "case",
	KindCaseBranch:   "case-branch",
	KindFunction:     "function",
	KindTestClause:   "test-clause",
	KindRedirect:     "redirect",
	KindAssignment:   "assignment",
	KindWord:         "word",
	KindLit:          "lit",
	KindSingleQuoted: "single-quoted",
	KindDoubleQuoted: "double-quoted",
	KindVarExpansion: "var-expansion",
	KindCmdSubst:     "cmd-subst",
	KindArithExpr:    "arith-expr",
	KindHeredoc:      "heredoc",
}

func (k NodeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "invalid"
}
