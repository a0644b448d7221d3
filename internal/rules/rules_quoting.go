package rules

import (
	"bashguard/internal/ast"
	"bashguard/internal/diag"
	"bashguard/internal/token"
)

func registerQuotingRules(reg *Registry) {
	reg.Register(Rule{
		Code:  diag.QuoUnquotedExpansion,
		Tier:  diag.FixSafe,
		Kinds: []ast.NodeKind{ast.KindCommand},
		Check: checkUnquotedExpansion,
	})
	reg.Register(Rule{
		Code:  diag.QuoBacktickSubst,
		Tier:  diag.FixSafe,
		Kinds: []ast.NodeKind{ast.KindCmdSubst},
		Check: checkBacktickSubst,
	})
}

// checkUnquotedExpansion flags unquoted $var in command argument position,
// where word splitting and globbing apply. The context stack rules out every
// position where bash does not split: double quotes, arithmetic, case
// patterns, array subscripts, heredoc bodies. Assignment right-hand sides
// and [[ ]] operands never reach this check because they are not command
// arguments.
func checkUnquotedExpansion(in *Input, n ast.Node, emit Emit) {
	c := n.(*ast.Command)
	if isDestructiveCommand(c.NameText()) {
		return // SEC7003 owns those arguments
	}
	for _, w := range c.Args {
		for _, p := range w.Parts {
			v, ok := p.(*ast.VarExpansion)
			if !ok || !splittingContext(v.Ctx()) {
				continue
			}
			old := in.Text(v.Span())
			emit(diag.NewWarning(diag.QuoUnquotedExpansion, v.Span(),
				"unquoted expansion of '"+v.Name+"' undergoes word splitting and globbing").
				WithFix(diag.SafeFix("quote the expansion", diag.TextEdit{
					Span:    v.Span(),
					OldText: old,
					NewText: `"` + old + `"`,
				})))
		}
	}
}

// splittingContext reports whether an expansion at this context undergoes
// word splitting.
func splittingContext(ctx token.CtxStack) bool {
	if ctx.InDoubleQuotes() || ctx.InSingleQuotes() {
		return false
	}
	for _, kind := range []token.CtxKind{
		token.CtxArithmetic,
		token.CtxCasePattern,
		token.CtxArraySubscript,
		token.CtxHeredoc,
		token.CtxParamExpansion,
	} {
		if ctx.Has(kind) {
			return false
		}
	}
	return true
}

func checkBacktickSubst(in *Input, n ast.Node, emit Emit) {
	cs := n.(*ast.CmdSubst)
	if !cs.Backtick {
		return
	}
	old := in.Text(cs.Span())
	inner := old
	if len(inner) >= 2 {
		inner = inner[1 : len(inner)-1]
	}
	emit(diag.New(diag.SevInfo, diag.QuoBacktickSubst, cs.Span(),
		"backticks do not nest and swallow backslashes; prefer $( )").
		WithFix(diag.SafeFix("rewrite as $( )", diag.TextEdit{
			Span:    cs.Span(),
			OldText: old,
			NewText: "$(" + inner + ")",
		})))
}
