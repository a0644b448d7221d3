package ast

import (
	"bashguard/internal/source"
	"bashguard/internal/token"
)

// Node is implemented by every AST node. Each node owns its children and
// carries the full lexical-context stack in force at its starting position;
// rules never re-derive quoting or nesting from the source text.
type Node interface {
	Kind() NodeKind
	Span() source.Span
	Ctx() token.CtxStack
}

// Base carries the span and context snapshot shared by all nodes.
type Base struct {
	NodeSpan source.Span
	NodeCtx  token.CtxStack
}

func (b *Base) Span() source.Span   { return b.NodeSpan }
func (b *Base) Ctx() token.CtxStack { return b.NodeCtx }

// Script is the root node: a list of statements.
type Script struct {
	Base
	Stmts []Node
}

func (*Script) Kind() NodeKind { return KindScript }

// Command is a simple command: optional leading assignments, a name, its
// arguments, and redirections in source order.
type Command struct {
	Base
	Assigns   []*Assignment
	Name      *Word // nil for assignment-only statements
	Args      []*Word
	Redirects []*Redirect
}

func (*Command) Kind() NodeKind { return KindCommand }

// NameText returns the literal command name, or "" when the name is absent
// or not statically known (starts with an expansion).
func (c *Command) NameText() string {
	if c.Name == nil {
		return ""
	}
	return c.Name.StaticPrefix()
}

// Pipeline is two or more commands joined by '|', optionally negated with '!'.
// A single command without '|' is not wrapped.
type Pipeline struct {
	Base
	Negated bool
	Cmds    []Node
}

func (*Pipeline) Kind() NodeKind { return KindPipeline }

// AndOrOp is the operator of an AndOr list.
type AndOrOp uint8

const (
	AndOp AndOrOp = iota // &&
	OrOp                 // ||
)

func (op AndOrOp) String() string {
	if op == AndOp {
		return "&&"
	}
	return "||"
}

// AndOr is a && / || pair; chains associate left.
type AndOr struct {
	Base
	Op    AndOrOp
	Left  Node
	Right Node
}

func (*AndOr) Kind() NodeKind { return KindAndOr }

// Subshell is a ( ... ) group running in a child environment.
type Subshell struct {
	Base
	Body      []Node
	Redirects []*Redirect
}

func (*Subshell) Kind() NodeKind { return KindSubshell }

// BraceGroup is a { ...; } group running in the current environment.
type BraceGroup struct {
	Base
	Body      []Node
	Redirects []*Redirect
}

func (*BraceGroup) Kind() NodeKind { return KindBraceGroup }

// ElifClause is one elif arm of an If.
type ElifClause struct {
	Cond []Node
	Then []Node
}

// If is an if/elif/else/fi conditional.
type If struct {
	Base
	Cond  []Node
	Then  []Node
	Elifs []ElifClause
	Else  []Node
}

func (*If) Kind() NodeKind { return KindIf }

// LoopKind distinguishes the loop forms.
type LoopKind uint8

const (
	LoopFor LoopKind = iota
	LoopWhile
	LoopUntil
)

func (k LoopKind) String() string {
	switch k {
	case LoopFor:
		return "for"
	case LoopWhile:
		return "while"
	default:
		return "until"
	}
}

// Loop covers for/while/until. For-loops set Var (and Items when an 'in'
// list is present; without one the loop iterates "$@"). While/until set Cond.
type Loop struct {
	Base
	LoopKind LoopKind
	Var      string
	VarSpan  source.Span
	Items    []*Word
	Cond     []Node
	Body     []Node
}

func (*Loop) Kind() NodeKind { return KindLoop }

// Case is a case/esac statement.
type Case struct {
	Base
	Word     *Word
	Branches []*CaseBranch
}

func (*Case) Kind() NodeKind { return KindCase }

// CaseBranch is one pattern) body;; arm. Pattern words carry the
// case-pattern context frame.
type CaseBranch struct {
	Base
	Patterns []*Word
	Body     []Node
}

func (*CaseBranch) Kind() NodeKind { return KindCaseBranch }

// Function is a function definition, either name() or the function keyword.
type Function struct {
	Base
	Name     string
	NameSpan source.Span
	Body     Node
}

func (*Function) Kind() NodeKind { return KindFunction }

// TestClause is a [[ ... ]] conditional expression. Operands stay words;
// word splitting does not apply inside.
type TestClause struct {
	Base
	Words []*Word
}

func (*TestClause) Kind() NodeKind { return KindTestClause }

// Redirect is one redirection. For heredocs Op is DLess/DLessDash, Target
// holds the delimiter word, and Heredoc the collected body.
type Redirect struct {
	Base
	Op      token.Kind
	IONum   string // "2" in 2>&1, "" when absent
	Target  *Word
	Heredoc *Heredoc
}

func (*Redirect) Kind() NodeKind { return KindRedirect }

// Heredoc is a collected heredoc body. Parts lists the expansions inside an
// unquoted body; a quoted delimiter leaves Parts empty.
type Heredoc struct {
	Base
	Delim     string
	Quoted    bool
	StripTabs bool
	Text      string
	Parts     []WordPart
}

func (*Heredoc) Kind() NodeKind { return KindHeredoc }

// Assignment is name=value, name+=value, or name[idx]=value. Value is nil
// for a bare "name=".
type Assignment struct {
	Base
	Name     string
	NameSpan source.Span
	Append   bool
	Array    bool // value is an ( ... ) array literal
	Value    *Word
}

func (*Assignment) Kind() NodeKind { return KindAssignment }

// Word is one shell word, decomposed into parts. Parts appear in source
// order; each carries the context stack at its own position.
type Word struct {
	Base
	Text  string
	Parts []WordPart
}

func (*Word) Kind() NodeKind { return KindWord }

// StaticPrefix returns the leading literal run of the word: "echo" for
// echo, "" for $cmd, "/usr/bin/env" for /usr/bin/env.
func (w *Word) StaticPrefix() string {
	if len(w.Parts) == 0 {
		return w.Text
	}
	if lit, ok := w.Parts[0].(*Lit); ok {
		return lit.Text
	}
	return ""
}

// IsFullyQuoted reports whether every expansion in the word sits inside
// double quotes (or the word has no expansions at all).
func (w *Word) IsFullyQuoted() bool {
	for _, p := range w.Parts {
		switch v := p.(type) {
		case *VarExpansion:
			if !v.Ctx().InDoubleQuotes() {
				return false
			}
		case *CmdSubst:
			if !v.Ctx().InDoubleQuotes() {
				return false
			}
		}
	}
	return true
}

// Expansions returns the word's variable, command-substitution, and
// arithmetic parts in source order.
func (w *Word) Expansions() []WordPart {
	var out []WordPart
	for _, p := range w.Parts {
		switch p.Kind() {
		case KindVarExpansion, KindCmdSubst, KindArithExpr:
			out = append(out, p)
		}
	}
	return out
}

// WordPart is a segment of a Word: literal text, a quoted run, or an
// expansion.
type WordPart interface {
	Node
	wordPart()
}

// Lit is plain literal text.
type Lit struct {
	Base
	Text string
}

func (*Lit) Kind() NodeKind { return KindLit }
func (*Lit) wordPart()      {}

// SingleQuoted is a '...' run; its content never expands.
type SingleQuoted struct {
	Base
	Text string // content without the quotes
}

func (*SingleQuoted) Kind() NodeKind { return KindSingleQuoted }
func (*SingleQuoted) wordPart()      {}

// DoubleQuoted marks a "..." run. Expansions inside it appear as separate
// parts whose context stacks carry the double-quoted frame.
type DoubleQuoted struct {
	Base
}

func (*DoubleQuoted) Kind() NodeKind { return KindDoubleQuoted }
func (*DoubleQuoted) wordPart()      {}

// VarExpansion is $name or ${name...}.
type VarExpansion struct {
	Base
	Name   string
	Braced bool
}

func (*VarExpansion) Kind() NodeKind { return KindVarExpansion }
func (*VarExpansion) wordPart()      {}

// CmdSubst is $( ... ) or `...`; Body is the fully parsed inner script.
type CmdSubst struct {
	Base
	Backtick bool
	Body     []Node
}

func (*CmdSubst) Kind() NodeKind { return KindCmdSubst }
func (*CmdSubst) wordPart()      {}

// ArithExpr is a $(( ... )) expansion. The expression is kept as text plus
// the variable references found inside it.
type ArithExpr struct {
	Base
	Expr string
	Vars []*VarExpansion
}

func (*ArithExpr) Kind() NodeKind { return KindArithExpr }
func (*ArithExpr) wordPart()      {}
