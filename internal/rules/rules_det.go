package rules

import (
	"bashguard/internal/ast"
	"bashguard/internal/diag"
)

func registerDeterminismRules(reg *Registry) {
	reg.Register(Rule{
		Code:  diag.DetRandomVar,
		Tier:  diag.FixUnsafe,
		Kinds: []ast.NodeKind{ast.KindVarExpansion},
		Check: checkRandomVar,
	})
	reg.Register(Rule{
		Code:  diag.DetTimestamp,
		Tier:  diag.FixUnsafe,
		Kinds: []ast.NodeKind{ast.KindAssignment},
		Check: checkTimestampAssign,
	})
	reg.Register(Rule{
		Code:  diag.DetProcessID,
		Tier:  diag.FixUnsafe,
		Kinds: []ast.NodeKind{ast.KindVarExpansion},
		Check: checkProcessID,
	})
}

func checkRandomVar(in *Input, n ast.Node, emit Emit) {
	v := n.(*ast.VarExpansion)
	if v.Name != "RANDOM" {
		return
	}
	emit(diag.NewWarning(diag.DetRandomVar, v.Span(),
		"$RANDOM makes the script non-reproducible").
		WithFix(diag.UnsafeFix("replace the random source",
			"seed a PRNG explicitly (e.g. RANDOM=$seed) and document the seed",
			"accept the value as a parameter instead of generating it")))
}

// checkTimestampAssign flags assignments whose value runs a clock-reading
// command. Only assignments are flagged: a timestamp in a log line is fine,
// a timestamp captured into a variable usually feeds file names or IDs.
func checkTimestampAssign(in *Input, n ast.Node, emit Emit) {
	a := n.(*ast.Assignment)
	if a.Value == nil {
		return
	}
	for _, p := range a.Value.Parts {
		cs, ok := p.(*ast.CmdSubst)
		if !ok || !runsClockCommand(cs.Body) {
			continue
		}
		emit(diag.NewWarning(diag.DetTimestamp, cs.Span(),
			"'"+a.Name+"' captures the current time; reruns produce different values").
			WithFix(diag.UnsafeFix("make the timestamp injectable",
				"accept the timestamp as a parameter or environment override",
				"derive the value from the input data instead of the clock")))
	}
}

func runsClockCommand(body []ast.Node) bool {
	found := false
	for _, stmt := range body {
		ast.Commands(stmt, func(c *ast.Command) {
			switch c.NameText() {
			case "date", "uptime":
				found = true
			}
		})
	}
	return found
}

func checkProcessID(in *Input, n ast.Node, emit Emit) {
	v := n.(*ast.VarExpansion)
	if v.Name != "$" {
		return
	}
	emit(diag.NewWarning(diag.DetProcessID, v.Span(),
		"$$ differs on every run; values derived from it are not reproducible").
		WithFix(diag.UnsafeFix("avoid the process id",
			"use mktemp for temporary files",
			"pass a caller-chosen unique token in")))
}
