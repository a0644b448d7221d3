package parser_test

import (
	"testing"

	"bashguard/internal/ast"
	"bashguard/internal/diag"
	"bashguard/internal/parser"
	"bashguard/internal/source"
	"bashguard/internal/token"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(d diag.Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

func (r *testReporter) hasCode(code diag.Code) bool {
	for _, d := range r.diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

func parseScript(t *testing.T, input string) (*ast.Script, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sh", []byte(input))
	rep := &testReporter{}
	p := parser.New(fs.Get(id), parser.Options{Reporter: rep})
	return p.Parse(), rep
}

func parseClean(t *testing.T, input string) *ast.Script {
	t.Helper()
	script, rep := parseScript(t, input)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", rep.diagnostics)
	}
	return script
}

func firstCommand(t *testing.T, n ast.Node) *ast.Command {
	t.Helper()
	var cmd *ast.Command
	ast.Walk(n, func(n ast.Node) bool {
		if cmd == nil {
			if c, ok := n.(*ast.Command); ok {
				cmd = c
				return false
			}
		}
		return cmd == nil
	})
	if cmd == nil {
		t.Fatal("no command found")
	}
	return cmd
}

func TestSimpleCommandWithRedirect(t *testing.T) {
	script := parseClean(t, "echo hello world > out.txt\n")
	if len(script.Stmts) != 1 {
		t.Fatalf("stmts = %d", len(script.Stmts))
	}
	cmd := firstCommand(t, script)
	if cmd.NameText() != "echo" || len(cmd.Args) != 2 {
		t.Errorf("name=%q args=%d", cmd.NameText(), len(cmd.Args))
	}
	if len(cmd.Redirects) != 1 || cmd.Redirects[0].Op != token.Great {
		t.Fatalf("redirects = %+v", cmd.Redirects)
	}
	if cmd.Redirects[0].Target.Text != "out.txt" {
		t.Errorf("target = %q", cmd.Redirects[0].Target.Text)
	}
}

func TestLeadingAssignments(t *testing.T) {
	script := parseClean(t, "LC_ALL=C sort input\n")
	cmd := firstCommand(t, script)
	if len(cmd.Assigns) != 1 || cmd.Assigns[0].Name != "LC_ALL" {
		t.Fatalf("assigns = %+v", cmd.Assigns)
	}
	if cmd.Assigns[0].Value == nil || cmd.Assigns[0].Value.Text != "C" {
		t.Errorf("value = %+v", cmd.Assigns[0].Value)
	}
	if cmd.NameText() != "sort" {
		t.Errorf("name = %q", cmd.NameText())
	}
}

func TestAssignmentOnly(t *testing.T) {
	script := parseClean(t, "count=0\ncount+=1\n")
	c0 := script.Stmts[0].(*ast.Command)
	c1 := script.Stmts[1].(*ast.Command)
	if c0.Name != nil || c0.Assigns[0].Name != "count" || c0.Assigns[0].Append {
		t.Errorf("first = %+v", c0.Assigns[0])
	}
	if !c1.Assigns[0].Append {
		t.Errorf("second not append: %+v", c1.Assigns[0])
	}
}

func TestPipelineAndAndOr(t *testing.T) {
	script := parseClean(t, "a | b && c || d\n")
	top, ok := script.Stmts[0].(*ast.AndOr)
	if !ok || top.Op != ast.OrOp {
		t.Fatalf("top = %#v", script.Stmts[0])
	}
	left, ok := top.Left.(*ast.AndOr)
	if !ok || left.Op != ast.AndOp {
		t.Fatalf("left = %#v", top.Left)
	}
	pipe, ok := left.Left.(*ast.Pipeline)
	if !ok || len(pipe.Cmds) != 2 {
		t.Fatalf("pipeline = %#v", left.Left)
	}
}

func TestNegatedPipeline(t *testing.T) {
	script := parseClean(t, "! grep -q x f\n")
	pipe, ok := script.Stmts[0].(*ast.Pipeline)
	if !ok || !pipe.Negated || len(pipe.Cmds) != 1 {
		t.Fatalf("stmt = %#v", script.Stmts[0])
	}
}

func TestIfElifElse(t *testing.T) {
	input := "if a; then b\nelif c; then d\nelse e\nfi\n"
	script := parseClean(t, input)
	node, ok := script.Stmts[0].(*ast.If)
	if !ok {
		t.Fatalf("stmt = %#v", script.Stmts[0])
	}
	if len(node.Cond) != 1 || len(node.Then) != 1 ||
		len(node.Elifs) != 1 || len(node.Else) != 1 {
		t.Errorf("shape: cond=%d then=%d elifs=%d else=%d",
			len(node.Cond), len(node.Then), len(node.Elifs), len(node.Else))
	}
}

func TestForLoop(t *testing.T) {
	script := parseClean(t, "for f in a b c; do echo $f; done\n")
	loop, ok := script.Stmts[0].(*ast.Loop)
	if !ok || loop.LoopKind != ast.LoopFor {
		t.Fatalf("stmt = %#v", script.Stmts[0])
	}
	if loop.Var != "f" || len(loop.Items) != 3 || len(loop.Body) != 1 {
		t.Errorf("var=%q items=%d body=%d", loop.Var, len(loop.Items), len(loop.Body))
	}
}

func TestWhileLoop(t *testing.T) {
	script := parseClean(t, "while read -r line; do echo \"$line\"; done\n")
	loop, ok := script.Stmts[0].(*ast.Loop)
	if !ok || loop.LoopKind != ast.LoopWhile {
		t.Fatalf("stmt = %#v", script.Stmts[0])
	}
	if len(loop.Cond) != 1 || len(loop.Body) != 1 {
		t.Errorf("cond=%d body=%d", len(loop.Cond), len(loop.Body))
	}
}

func TestCaseStatement(t *testing.T) {
	input := "case \"$1\" in\nstart|stop) svc \"$1\";;\n*) usage;;\nesac\n"
	script := parseClean(t, input)
	c, ok := script.Stmts[0].(*ast.Case)
	if !ok || len(c.Branches) != 2 {
		t.Fatalf("case = %#v", script.Stmts[0])
	}
	b := c.Branches[0]
	if len(b.Patterns) != 2 || b.Patterns[0].Text != "start" {
		t.Errorf("patterns = %+v", b.Patterns)
	}
	if !b.Patterns[0].Ctx().Has(token.CtxCasePattern) {
		t.Error("pattern word lost case-pattern context")
	}
	if len(b.Body) != 1 {
		t.Errorf("body = %d", len(b.Body))
	}
}

func TestCaseBranchAssignmentParsesClean(t *testing.T) {
	// A case branch whose body contains a truncated assignment must not
	// produce cascading syntax errors.
	input := "case \"$1\" in\nstart) local pid=$ ;;\nesac\n"
	script, rep := parseScript(t, input)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("diagnostics = %+v", rep.diagnostics)
	}
	c := script.Stmts[0].(*ast.Case)
	cmd := c.Branches[0].Body[0].(*ast.Command)
	if cmd.NameText() != "local" || len(cmd.Args) != 1 {
		t.Errorf("branch body = %#v", cmd)
	}
}

func TestFunctionDefs(t *testing.T) {
	script := parseClean(t, "greet() { echo hi; }\nfunction cleanup { rm -f \"$tmp\"; }\n")
	f0, ok := script.Stmts[0].(*ast.Function)
	if !ok || f0.Name != "greet" {
		t.Fatalf("first = %#v", script.Stmts[0])
	}
	if _, ok := f0.Body.(*ast.BraceGroup); !ok {
		t.Errorf("body = %#v", f0.Body)
	}
	f1, ok := script.Stmts[1].(*ast.Function)
	if !ok || f1.Name != "cleanup" {
		t.Fatalf("second = %#v", script.Stmts[1])
	}
}

func TestSubshellAndBraceGroup(t *testing.T) {
	script := parseClean(t, "(cd /tmp && ls)\n{ echo a; echo b; }\n")
	if _, ok := script.Stmts[0].(*ast.Subshell); !ok {
		t.Fatalf("first = %#v", script.Stmts[0])
	}
	bg, ok := script.Stmts[1].(*ast.BraceGroup)
	if !ok || len(bg.Body) != 2 {
		t.Fatalf("second = %#v", script.Stmts[1])
	}
}

func TestTestClause(t *testing.T) {
	script := parseClean(t, "[[ -f $file && $n -gt 0 ]]\n")
	tc, ok := script.Stmts[0].(*ast.TestClause)
	if !ok {
		t.Fatalf("stmt = %#v", script.Stmts[0])
	}
	if len(tc.Words) != 6 {
		t.Errorf("words = %d: %+v", len(tc.Words), tc.Words)
	}
}

func TestHeredocAttachesToRedirect(t *testing.T) {
	input := "cat <<EOF\nhello $name\nEOF\n"
	script := parseClean(t, input)
	cmd := firstCommand(t, script)
	if len(cmd.Redirects) != 1 {
		t.Fatalf("redirects = %+v", cmd.Redirects)
	}
	hd := cmd.Redirects[0].Heredoc
	if hd == nil || hd.Delim != "EOF" || hd.Quoted {
		t.Fatalf("heredoc = %+v", hd)
	}
	if hd.Text != "hello $name\n" || len(hd.Parts) != 1 {
		t.Errorf("body = %q parts = %+v", hd.Text, hd.Parts)
	}
	v, ok := hd.Parts[0].(*ast.VarExpansion)
	if !ok || v.Name != "name" || v.Ctx().Top().Kind != token.CtxHeredoc {
		t.Errorf("part = %#v", hd.Parts[0])
	}
}

func TestCommandSubstitutionRecursion(t *testing.T) {
	script := parseClean(t, "echo \"$(ls $dir)\"\n")
	cmd := firstCommand(t, script)
	var subst *ast.CmdSubst
	ast.Walk(cmd.Args[0], func(n ast.Node) bool {
		if cs, ok := n.(*ast.CmdSubst); ok {
			subst = cs
		}
		return true
	})
	if subst == nil || len(subst.Body) != 1 {
		t.Fatalf("subst = %#v", subst)
	}

	inner := subst.Body[0].(*ast.Command)
	if inner.NameText() != "ls" || len(inner.Args) != 1 {
		t.Fatalf("inner = %#v", inner)
	}
	// $dir sits inside $( ) inside "...": the substitution resets quoting.
	exp := inner.Args[0].Parts[0].(*ast.VarExpansion)
	if exp.Name != "dir" {
		t.Fatalf("exp = %#v", exp)
	}
	if !exp.Ctx().Has(token.CtxCommandSubst) {
		t.Error("inner expansion lost command-subst frame")
	}
	if exp.Ctx().InDoubleQuotes() {
		t.Error("quoting must reset inside command substitution")
	}
}

func TestArithmeticVars(t *testing.T) {
	script := parseClean(t, "echo $((count + 2 * max))\n")
	cmd := firstCommand(t, script)
	ar := cmd.Args[0].Parts[0].(*ast.ArithExpr)
	if len(ar.Vars) != 2 || ar.Vars[0].Name != "count" || ar.Vars[1].Name != "max" {
		t.Errorf("vars = %+v", ar.Vars)
	}
	if !ar.Vars[0].Ctx().Has(token.CtxArithmetic) {
		t.Error("arith var lacks arithmetic frame")
	}
}

func TestRecoveryContinuesAfterError(t *testing.T) {
	// Missing 'then': the parser reports and still sees the later command.
	script, rep := parseScript(t, "if true\necho one\nfi\necho two\n")
	if !rep.hasCode(diag.SynExpectThen) {
		t.Fatalf("missing SynExpectThen: %+v", rep.diagnostics)
	}
	found := false
	ast.Commands(script, func(c *ast.Command) {
		if c.NameText() == "echo" && len(c.Args) == 1 && c.Args[0].Text == "two" {
			found = true
		}
	})
	if !found {
		t.Error("statement after broken if was lost")
	}
}

func TestStrayTokenResync(t *testing.T) {
	script, rep := parseScript(t, ";; \necho ok\n")
	if !rep.hasCode(diag.SynUnexpectedToken) {
		t.Fatalf("missing SynUnexpectedToken: %+v", rep.diagnostics)
	}
	if len(script.Stmts) != 1 {
		t.Fatalf("stmts = %d", len(script.Stmts))
	}
}

func TestSpansAreAbsoluteAndOrdered(t *testing.T) {
	input := "x=1\nif true; then echo $x; fi\n"
	script := parseClean(t, input)
	var prev uint32
	ast.Walk(script, func(n ast.Node) bool {
		sp := n.Span()
		if sp.End < sp.Start {
			t.Fatalf("inverted span on %v: %+v", n.Kind(), sp)
		}
		if n.Kind() == ast.KindCommand {
			if sp.Start < prev {
				t.Fatalf("command spans out of order")
			}
			prev = sp.Start
		}
		return true
	})
}
