package token

import "strings"

// CtxKind tags one frame of the lexical-context stack. The stack, not the
// innermost frame alone, is attached to tokens and AST nodes: rules need to
// reason about ancestry (double quotes nested inside a command substitution
// behave differently from bare double quotes).
type CtxKind uint8

const (
	// CtxUnquoted is the implicit root context.
	CtxUnquoted CtxKind = iota
	// CtxDoubleQuoted covers "..." regions.
	CtxDoubleQuoted
	// CtxSingleQuoted covers '...' regions.
	CtxSingleQuoted
	// CtxHeredoc covers heredoc bodies; the frame carries the delimiter.
	CtxHeredoc
	// CtxArithmetic covers $(( )) and (( )) regions.
	CtxArithmetic
	// CtxCasePattern covers case patterns up to the closing ')'.
	CtxCasePattern
	// CtxArraySubscript covers a[...] index expressions.
	CtxArraySubscript
	// CtxCommandSubst covers $( ) and backtick regions.
	CtxCommandSubst
	// CtxParamExpansion covers ${ } regions.
	CtxParamExpansion
	// CtxSubshell covers ( ) groups.
	CtxSubshell
)

func (k CtxKind) String() string {
	switch k {
	case CtxUnquoted:
		return "unquoted"
	case CtxDoubleQuoted:
		return "double-quoted"
	case CtxSingleQuoted:
		return "single-quoted"
	case CtxHeredoc:
		return "heredoc"
	case CtxArithmetic:
		return "arithmetic"
	case CtxCasePattern:
		return "case-pattern"
	case CtxArraySubscript:
		return "array-subscript"
	case CtxCommandSubst:
		return "command-subst"
	case CtxParamExpansion:
		return "param-expansion"
	case CtxSubshell:
		return "subshell"
	default:
		return "invalid"
	}
}

// CtxFrame is one entry of the context stack.
type CtxFrame struct {
	Kind CtxKind
	// Delim is the heredoc delimiter for CtxHeredoc frames.
	Delim string
	// Quoted marks heredoc frames whose delimiter was quoted, which
	// disables expansion inside the body.
	Quoted bool
}

// CtxStack is an immutable snapshot of nested lexical contexts, outermost
// first. Push copies: snapshots handed to tokens and nodes never alias the
// automaton's live stack.
type CtxStack []CtxFrame

// Push returns a new stack with frame appended. The receiver is not modified.
func (s CtxStack) Push(frame CtxFrame) CtxStack {
	out := make(CtxStack, len(s), len(s)+1)
	copy(out, s)
	return append(out, frame)
}

// Pop returns the stack without its innermost frame.
func (s CtxStack) Pop() CtxStack {
	if len(s) == 0 {
		return s
	}
	return s[:len(s)-1]
}

// Top returns the innermost frame, or an unquoted frame for an empty stack.
func (s CtxStack) Top() CtxFrame {
	if len(s) == 0 {
		return CtxFrame{Kind: CtxUnquoted}
	}
	return s[len(s)-1]
}

// Has reports whether any frame on the stack has the given kind.
func (s CtxStack) Has(kind CtxKind) bool {
	for i := range s {
		if s[i].Kind == kind {
			return true
		}
	}
	return false
}

// InDoubleQuotes reports whether the innermost quoting frame is double quotes.
// A command substitution opens a fresh quoting context, so "$(cmd $x)" leaves
// $x unquoted even though the substitution sits inside double quotes.
func (s CtxStack) InDoubleQuotes() bool {
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i].Kind {
		case CtxDoubleQuoted:
			return true
		case CtxSingleQuoted, CtxCommandSubst, CtxHeredoc:
			return false
		}
	}
	return false
}

// InSingleQuotes reports whether the innermost quoting frame is single quotes.
func (s CtxStack) InSingleQuotes() bool {
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i].Kind {
		case CtxSingleQuoted:
			return true
		case CtxDoubleQuoted, CtxCommandSubst, CtxHeredoc:
			return false
		}
	}
	return false
}

func (s CtxStack) String() string {
	if len(s) == 0 {
		return "unquoted"
	}
	parts := make([]string, len(s))
	for i, f := range s {
		parts[i] = f.Kind.String()
		if f.Kind == CtxHeredoc && f.Delim != "" {
			parts[i] += "(" + f.Delim + ")"
		}
	}
	return strings.Join(parts, ">")
}
