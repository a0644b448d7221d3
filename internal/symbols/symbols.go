package symbols

import (
	"bashguard/internal/source"
)

// Origin classifies how a variable got its value. Rules grade their
// confidence on it: an OriginUnknown read is reported as Risk, never Error.
type Origin uint8

const (
	// OriginUnknown means no assignment was seen; the value may come from
	// the environment or a sourced file.
	OriginUnknown Origin = iota
	// OriginAssignment is a plain name=value assignment.
	OriginAssignment
	// OriginExported is a variable passed through export or declare -x.
	OriginExported
	// OriginRead is a variable populated by the read builtin.
	OriginRead
	// OriginLoopVar is a for-loop iteration variable.
	OriginLoopVar
	// OriginLocal is a local/declare/typeset declaration inside a function.
	OriginLocal
	// OriginParam is a positional or special parameter ($1, $@, $?, ...).
	OriginParam
)

func (o Origin) String() string {
	switch o {
	case OriginAssignment:
		return "assignment"
	case OriginExported:
		return "exported"
	case OriginRead:
		return "read"
	case OriginLoopVar:
		return "loop-var"
	case OriginLocal:
		return "local"
	case OriginParam:
		return "param"
	default:
		return "unknown"
	}
}

// Symbol is one declared variable. DeclSpan points at the first declaration
// the resolver saw.
type Symbol struct {
	Name     string
	Origin   Origin
	DeclSpan source.Span
	Scope    ScopeKind
}

// ScopeKind tags the frame a symbol lives in.
type ScopeKind uint8

const (
	ScopeRoot ScopeKind = iota
	ScopeFunction
	ScopeSubshell
	// ScopeCaseBranch frames a case branch body. Only local declarations
	// live in it; plain assignments pass through to the enclosing frame.
	ScopeCaseBranch
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeFunction:
		return "function"
	case ScopeSubshell:
		return "subshell"
	case ScopeCaseBranch:
		return "case-branch"
	default:
		return "root"
	}
}

// scope is one frame of the lexical scope chain during resolution.
type scope struct {
	kind   ScopeKind
	parent *scope
	names  map[string]*Symbol
}

func newScope(kind ScopeKind, parent *scope) *scope {
	return &scope{kind: kind, parent: parent, names: make(map[string]*Symbol)}
}

// declare records a symbol in this frame. The first declaration wins so
// DeclSpan stays stable; re-assignments do not move it.
func (s *scope) declare(sym *Symbol) *Symbol {
	if existing, ok := s.names[sym.Name]; ok {
		return existing
	}
	s.names[sym.Name] = sym
	return sym
}

// lookup walks outward through the frame chain.
func (s *scope) lookup(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.names[name]; ok {
			return sym, true
		}
	}
	return nil, false
}
