package rules

import (
	"bashguard/internal/ast"
	"bashguard/internal/diag"
)

func registerSecurityRules(reg *Registry) {
	reg.Register(Rule{
		Code:  diag.SecEvalUse,
		Tier:  diag.FixUnsafe,
		Kinds: []ast.NodeKind{ast.KindCommand},
		Check: checkEvalUse,
	})
	reg.Register(Rule{
		Code:  diag.SecPipeToShell,
		Tier:  diag.FixUnsafe,
		Kinds: []ast.NodeKind{ast.KindPipeline},
		Check: checkPipeToShell,
	})
	reg.Register(Rule{
		Code:  diag.SecUnquotedDestructive,
		Tier:  diag.FixSafe,
		Kinds: []ast.NodeKind{ast.KindCommand},
		Check: checkUnquotedDestructive,
	})
}

func isDestructiveCommand(name string) bool {
	switch name {
	case "rm", "rmdir", "mv", "dd", "shred", "truncate":
		return true
	default:
		return false
	}
}

func isShellName(name string) bool {
	switch name {
	case "sh", "bash", "zsh", "dash", "ksh":
		return true
	default:
		return false
	}
}

func isDownloaderName(name string) bool {
	switch name {
	case "curl", "wget", "fetch":
		return true
	default:
		return false
	}
}

// checkEvalUse flags eval whose argument contains any expansion: the
// expanded value becomes code.
func checkEvalUse(in *Input, n ast.Node, emit Emit) {
	c := n.(*ast.Command)
	if c.NameText() != "eval" {
		return
	}
	for _, w := range c.Args {
		if len(w.Expansions()) == 0 {
			continue
		}
		emit(diag.NewError(diag.SecEvalUse, w.Span(),
			"eval executes expanded data as code").
			WithFix(diag.UnsafeFix("remove the eval",
				"use an array and \"${cmd[@]}\" to build the command",
				"use declare -n for indirect variable access",
				"use a case statement over the expected values")))
		return
	}
}

// checkPipeToShell flags `curl ... | sh` and friends: the script executes
// whatever the network returned.
func checkPipeToShell(in *Input, n ast.Node, emit Emit) {
	p := n.(*ast.Pipeline)
	downloaderSeen := false
	for _, stage := range p.Cmds {
		c, ok := stage.(*ast.Command)
		if !ok {
			continue
		}
		name := c.NameText()
		if isDownloaderName(name) {
			downloaderSeen = true
			continue
		}
		if downloaderSeen && isShellName(name) {
			emit(diag.NewError(diag.SecPipeToShell, p.Span(),
				"piping a download into a shell executes unverified remote code").
				WithFix(diag.UnsafeFix("verify before executing",
					"download to a file, check its checksum or signature, then run it",
					"pin a specific version and vendor the script")))
			return
		}
	}
}

// checkUnquotedDestructive flags unquoted expansions as arguments of
// destructive commands. An empty or space-containing value turns `rm -rf
// $DIR` into a very different command, so the severity is higher than plain
// QUO4001: Error when the variable provably has no assignment, Warning when
// it is bound somewhere.
func checkUnquotedDestructive(in *Input, n ast.Node, emit Emit) {
	c := n.(*ast.Command)
	if !isDestructiveCommand(c.NameText()) {
		return
	}
	for _, w := range c.Args {
		for _, p := range w.Parts {
			v, ok := p.(*ast.VarExpansion)
			if !ok || !splittingContext(v.Ctx()) {
				continue
			}
			sev := diag.SevError
			msg := "unquoted '" + v.Name + "' in " + c.NameText() +
				" argument; an empty or space-containing value changes the target set"
			if in.Symbols.AssignedAnywhere(v.Name) || v.Name == "" ||
				isParamLike(v.Name) {
				sev = diag.SevWarning
			}
			old := in.Text(v.Span())
			emit(diag.New(sev, diag.SecUnquotedDestructive, v.Span(), msg).
				WithFix(diag.SafeFix("quote the expansion", diag.TextEdit{
					Span:    v.Span(),
					OldText: old,
					NewText: `"` + old + `"`,
				})))
		}
	}
}

func isParamLike(name string) bool {
	if len(name) != 1 {
		return false
	}
	ch := name[0]
	return (ch >= '0' && ch <= '9') || ch == '@' || ch == '*' || ch == '#' ||
		ch == '?' || ch == '$' || ch == '!' || ch == '-'
}
