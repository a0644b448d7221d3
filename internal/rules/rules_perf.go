package rules

import (
	"strings"

	"bashguard/internal/ast"
	"bashguard/internal/diag"
	"bashguard/internal/source"
)

func registerPerfRules(reg *Registry) {
	reg.Register(Rule{
		Code:  diag.PrfUselessCat,
		Tier:  diag.FixSafeWithAssumptions,
		Kinds: []ast.NodeKind{ast.KindPipeline},
		Check: checkUselessCat,
	})
}

// checkUselessCat flags `cat file | cmd`, which forks a process to do what
// a redirection does. The rewrite moves the file behind `cmd < file`.
func checkUselessCat(in *Input, n ast.Node, emit Emit) {
	p := n.(*ast.Pipeline)
	if len(p.Cmds) < 2 {
		return
	}
	cat, ok := p.Cmds[0].(*ast.Command)
	if !ok || cat.NameText() != "cat" || len(cat.Args) != 1 ||
		len(cat.Redirects) != 0 {
		return
	}
	file := cat.Args[0]
	if strings.HasPrefix(file.Text, "-") {
		return // flags or stdin marker, not a plain file
	}
	next, ok := p.Cmds[1].(*ast.Command)
	if !ok {
		return
	}

	d := diag.New(diag.SevPerf, diag.PrfUselessCat, cat.Span(),
		"cat adds a process and a pipe; the command can read the file directly")

	// Delete "cat file | " and append " < file" after the consumer.
	head := source.Span{
		File:  cat.Span().File,
		Start: cat.Span().Start,
		End:   next.Span().Start,
	}
	tail := source.Span{
		File:  next.Span().File,
		Start: next.Span().End,
		End:   next.Span().End,
	}
	d = d.WithFix(diag.AssumingFix("read the file via redirection",
		[]string{"the command treats stdin the same as a file argument"},
		diag.TextEdit{Span: head, OldText: in.Text(head), NewText: ""},
		diag.TextEdit{Span: tail, OldText: "", NewText: " < " + file.Text},
	))
	emit(d)
}
