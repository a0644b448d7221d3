package rules

import (
	"bashguard/internal/ast"
	"bashguard/internal/diag"
	"bashguard/internal/symbols"
)

func registerVarRules(reg *Registry) {
	reg.Register(Rule{
		Code:  diag.VarUnassigned,
		Kinds: []ast.NodeKind{ast.KindVarExpansion},
		Check: checkUnassigned,
	})
	reg.Register(Rule{
		Code:  diag.VarLocalOutsideFunction,
		Kinds: []ast.NodeKind{ast.KindCommand},
		Check: checkLocalOutsideFunction,
	})
}

// checkUnassigned reports reads of variables with no visible assignment.
// The severity policy is deliberately asymmetric: the analyzer only claims
// Warning when the script itself proves the name was never bound, and hedges
// with Risk whenever the environment or a sourced file could supply the
// value. It never claims Error.
func checkUnassigned(in *Input, n ast.Node, emit Emit) {
	v := n.(*ast.VarExpansion)
	if v.Name == "" {
		return
	}

	sym, resolved := in.Symbols.SymbolOf(v)
	if resolved && sym.Origin != symbols.OriginUnknown {
		return
	}

	switch {
	case in.Symbols.AssignedAnywhere(v.Name):
		emit(diag.NewRisk(diag.VarUnassigned, v.Span(),
			"'"+v.Name+"' may be unassigned here; its assignment is in another scope or later in the script"))
	case envShaped(v.Name):
		emit(diag.NewRisk(diag.VarUnassigned, v.Span(),
			"'"+v.Name+"' is never assigned in this script; it may come from the environment"))
	default:
		emit(diag.NewWarning(diag.VarUnassigned, v.Span(),
			"'"+v.Name+"' is never assigned"))
	}
}

// envShaped reports names that look like environment variables: all-caps
// with underscores and digits.
func envShaped(name string) bool {
	for i := 0; i < len(name); i++ {
		ch := name[i]
		upper := ch >= 'A' && ch <= 'Z'
		digit := i > 0 && ch >= '0' && ch <= '9'
		if !upper && ch != '_' && !digit {
			return false
		}
	}
	return len(name) > 0
}

func checkLocalOutsideFunction(in *Input, n ast.Node, emit Emit) {
	c := n.(*ast.Command)
	if c.NameText() != "local" || in.InsideFunction(c) {
		return
	}
	emit(diag.NewError(diag.VarLocalOutsideFunction, c.Span(),
		"'local' is only valid inside a function"))
}
