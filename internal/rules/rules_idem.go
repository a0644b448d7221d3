package rules

import (
	"strings"

	"bashguard/internal/ast"
	"bashguard/internal/diag"
)

func registerIdempotencyRules(reg *Registry) {
	reg.Register(Rule{
		Code:  diag.IdmMkdirNoParents,
		Tier:  diag.FixSafeWithAssumptions,
		Kinds: []ast.NodeKind{ast.KindCommand},
		Check: checkMkdirNoParents,
	})
	reg.Register(Rule{
		Code:  diag.IdmRmNoForce,
		Tier:  diag.FixSafeWithAssumptions,
		Kinds: []ast.NodeKind{ast.KindCommand},
		Check: checkRmNoForce,
	})
	reg.Register(Rule{
		Code:  diag.IdmLnNoForce,
		Tier:  diag.FixSafeWithAssumptions,
		Kinds: []ast.NodeKind{ast.KindCommand},
		Check: checkLnNoForce,
	})
}

// hasShortFlag reports whether any argument is a short-flag cluster
// containing letter, or equals long.
func hasShortFlag(c *ast.Command, letter byte, long string) bool {
	for _, w := range c.Args {
		t := w.Text
		if long != "" && t == long {
			return true
		}
		if len(t) >= 2 && t[0] == '-' && t[1] != '-' &&
			strings.IndexByte(t[1:], letter) >= 0 {
			return true
		}
	}
	return false
}

func checkMkdirNoParents(in *Input, n ast.Node, emit Emit) {
	c := n.(*ast.Command)
	if c.NameText() != "mkdir" || hasShortFlag(c, 'p', "--parents") {
		return
	}
	name := c.Name.Span()
	emit(diag.NewWarning(diag.IdmMkdirNoParents, c.Span(),
		"mkdir fails when the directory already exists; a rerun of this script aborts here").
		WithFix(diag.AssumingFix("add -p",
			[]string{"the script does not rely on mkdir failing for an existing directory"},
			diag.TextEdit{Span: name, OldText: in.Text(name), NewText: in.Text(name) + " -p"})))
}

func checkRmNoForce(in *Input, n ast.Node, emit Emit) {
	c := n.(*ast.Command)
	if c.NameText() != "rm" || hasShortFlag(c, 'f', "--force") {
		return
	}
	name := c.Name.Span()
	emit(diag.NewWarning(diag.IdmRmNoForce, c.Span(),
		"rm fails when the target is already gone; a rerun of this script aborts here").
		WithFix(diag.AssumingFix("add -f",
			[]string{"the script does not rely on rm failing for a missing file"},
			diag.TextEdit{Span: name, OldText: in.Text(name), NewText: in.Text(name) + " -f"})))
}

func checkLnNoForce(in *Input, n ast.Node, emit Emit) {
	c := n.(*ast.Command)
	if c.NameText() != "ln" || !hasShortFlag(c, 's', "--symbolic") ||
		hasShortFlag(c, 'f', "--force") {
		return
	}

	d := diag.NewWarning(diag.IdmLnNoForce, c.Span(),
		"ln -s fails when the link already exists; a rerun of this script aborts here")
	// Offer the rewrite only for a plain -s flag; clustered flags would
	// need reordering the cluster.
	for _, w := range c.Args {
		if w.Text == "-s" {
			d = d.WithFix(diag.AssumingFix("use -sf",
				[]string{"an existing link at the target may be replaced"},
				diag.TextEdit{Span: w.Span(), OldText: "-s", NewText: "-sf"}))
			break
		}
	}
	emit(d)
}
