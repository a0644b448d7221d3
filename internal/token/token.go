package token

import (
	"bashguard/internal/source"
)

// PartKind classifies one segment of a composite word.
type PartKind uint8

const (
	// PartLit is plain literal text.
	PartLit PartKind = iota
	// PartVar is a $name or ${name...} expansion.
	PartVar
	// PartCmdSubst is a $( ) or backtick command substitution.
	PartCmdSubst
	// PartArith is a $(( )) arithmetic expansion.
	PartArith
	// PartSingleQuoted is a '...' segment (never expanded).
	PartSingleQuoted
	// PartDoubleQuoted is a "..." segment; nested expansions appear as
	// separate PartVar/PartCmdSubst entries with a double-quoted context.
	PartDoubleQuoted
)

func (k PartKind) String() string {
	switch k {
	case PartLit:
		return "lit"
	case PartVar:
		return "var"
	case PartCmdSubst:
		return "cmd-subst"
	case PartArith:
		return "arith"
	case PartSingleQuoted:
		return "single-quoted"
	case PartDoubleQuoted:
		return "double-quoted"
	default:
		return "invalid"
	}
}

// Part records one segment inside a Word, AssignWord, or HeredocBody token.
// For PartVar, Name holds the variable name ("x" for both $x and ${x:-d});
// for PartCmdSubst and PartArith, Inner spans the body between the markers.
type Part struct {
	Kind  PartKind
	Span  source.Span
	Name  string
	Inner source.Span
	Ctx   CtxStack
	// Backtick marks legacy `...` command substitution.
	Backtick bool
	// Braced marks ${name} style variable references.
	Braced bool
}

// Token is a single lexical unit. Text is a slice of the original source and
// Span matches it exactly. Tokens are immutable once produced.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string
	Ctx   CtxStack
	Parts []Part
}

// IsWordLike reports whether the token contributes to a shell word.
func (t Token) IsWordLike() bool {
	return t.Kind == Word || t.Kind == AssignWord
}

// ExpansionParts returns the token's variable/command/arithmetic expansion
// parts, skipping literal and quoted-literal segments.
func (t Token) ExpansionParts() []Part {
	out := make([]Part, 0, len(t.Parts))
	for _, p := range t.Parts {
		switch p.Kind {
		case PartVar, PartCmdSubst, PartArith:
			out = append(out, p)
		}
	}
	return out
}
