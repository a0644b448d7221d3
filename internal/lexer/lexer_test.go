package lexer_test

import (
	"testing"

	"bashguard/internal/diag"
	"bashguard/internal/lexer"
	"bashguard/internal/source"
	"bashguard/internal/token"
)

// testReporter collects every diagnostic the lexer emits.
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

func makeTestLexer(t *testing.T, input string) (*lexer.Lexer, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sh", []byte(input))
	reporter := &testReporter{}
	return lexer.New(fs.Get(id), lexer.Options{Reporter: reporter}), reporter
}

func collectAllTokens(lx *lexer.Lexer) []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

// expectKinds checks the token kind sequence, EOF included.
func expectKinds(t *testing.T, input string, want ...token.Kind) []token.Token {
	t.Helper()
	lx, _ := makeTestLexer(t, input)
	tokens := collectAllTokens(lx)
	if len(tokens) != len(want) {
		t.Fatalf("%q: got %d tokens, want %d: %v", input, len(tokens), len(want), kinds(tokens))
	}
	for i, k := range want {
		if tokens[i].Kind != k {
			t.Errorf("%q: token %d = %v, want %v", input, i, tokens[i].Kind, k)
		}
	}
	return tokens
}

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestSimpleCommand(t *testing.T) {
	toks := expectKinds(t, "echo hello world\n",
		token.Word, token.Word, token.Word, token.Newline, token.EOF)
	if toks[0].Text != "echo" || toks[2].Text != "world" {
		t.Errorf("texts = %q %q", toks[0].Text, toks[2].Text)
	}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Kind
	}{
		{"a && b", []token.Kind{token.Word, token.AndIf, token.Word, token.EOF}},
		{"a || b", []token.Kind{token.Word, token.OrIf, token.Word, token.EOF}},
		{"a | b", []token.Kind{token.Word, token.Pipe, token.Word, token.EOF}},
		{"a; b", []token.Kind{token.Word, token.Semi, token.Word, token.EOF}},
		{"a &", []token.Kind{token.Word, token.Amp, token.EOF}},
		{"a > f", []token.Kind{token.Word, token.Great, token.Word, token.EOF}},
		{"a >> f", []token.Kind{token.Word, token.DGreat, token.Word, token.EOF}},
		{"a 2>&1", []token.Kind{token.Word, token.IONumber, token.GreatAnd, token.Word, token.EOF}},
		{"a < f", []token.Kind{token.Word, token.Less, token.Word, token.EOF}},
		{"a <<< word", []token.Kind{token.Word, token.TLess, token.Word, token.EOF}},
	}
	for _, tt := range tests {
		expectKinds(t, tt.input, tt.want...)
	}
}

func TestKeywordPromotion(t *testing.T) {
	toks := expectKinds(t, "if true; then echo if; fi",
		token.KwIf, token.Word, token.Semi, token.KwThen,
		token.Word, token.Word, token.Semi, token.KwFi, token.EOF)
	// "if" as an argument stays a plain word.
	if toks[5].Text != "if" {
		t.Errorf("argument word = %q", toks[5].Text)
	}
}

func TestForLoopInPromotion(t *testing.T) {
	expectKinds(t, "for x in a b; do echo $x; done",
		token.KwFor, token.Word, token.KwIn, token.Word, token.Word, token.Semi,
		token.KwDo, token.Word, token.Word, token.Semi, token.KwDone, token.EOF)
	// "in" outside for/case is an ordinary word.
	expectKinds(t, "echo in", token.Word, token.Word, token.EOF)
}

func TestAssignmentWord(t *testing.T) {
	toks := expectKinds(t, "FOO=bar cmd", token.AssignWord, token.Word, token.EOF)
	if toks[0].Text != "FOO=bar" {
		t.Errorf("assignment text = %q", toks[0].Text)
	}
	// '=' inside an argument does not make an assignment.
	expectKinds(t, "cmd --opt=v", token.Word, token.Word, token.EOF)
}

func TestArrayAssignment(t *testing.T) {
	toks := expectKinds(t, "arr=(one $two)", token.AssignWord, token.EOF)
	exp := toks[0].ExpansionParts()
	if len(exp) != 1 || exp[0].Name != "two" {
		t.Fatalf("expansions = %+v", exp)
	}
}

func TestWordParts(t *testing.T) {
	lx, _ := makeTestLexer(t, `echo pre$X"mid $Y"'$Z'`)
	toks := collectAllTokens(lx)
	w := toks[1]
	if w.Kind != token.Word {
		t.Fatalf("kind = %v", w.Kind)
	}

	exp := w.ExpansionParts()
	if len(exp) != 2 {
		t.Fatalf("expansions = %+v", exp)
	}
	if exp[0].Name != "X" || exp[0].Ctx.InDoubleQuotes() {
		t.Errorf("$X: name=%q quoted=%v", exp[0].Name, exp[0].Ctx.InDoubleQuotes())
	}
	if exp[1].Name != "Y" || !exp[1].Ctx.InDoubleQuotes() {
		t.Errorf("$Y: name=%q quoted=%v", exp[1].Name, exp[1].Ctx.InDoubleQuotes())
	}

	// $Z is inert inside single quotes: no PartVar for it.
	var single int
	for _, p := range w.Parts {
		if p.Kind == token.PartSingleQuoted {
			single++
		}
	}
	if single != 1 {
		t.Errorf("single-quoted segments = %d", single)
	}
}

func TestBracedExpansion(t *testing.T) {
	lx, _ := makeTestLexer(t, `echo ${name:-default} ${#arr[@]}`)
	toks := collectAllTokens(lx)

	p1 := toks[1].ExpansionParts()
	if len(p1) != 1 || p1[0].Name != "name" || !p1[0].Braced {
		t.Errorf("${name:-default} part = %+v", p1)
	}
	p2 := toks[2].ExpansionParts()
	if len(p2) != 1 || p2[0].Name != "arr" {
		t.Errorf("${#arr[@]} part = %+v", p2)
	}
}

func TestCommandSubstitution(t *testing.T) {
	lx, _ := makeTestLexer(t, `out=$(ls "$d (x)")`)
	toks := collectAllTokens(lx)
	w := toks[0]
	if w.Kind != token.AssignWord {
		t.Fatalf("kind = %v", w.Kind)
	}
	exp := w.ExpansionParts()
	if len(exp) != 1 || exp[0].Kind != token.PartCmdSubst {
		t.Fatalf("parts = %+v", exp)
	}
	// The ')' inside the double-quoted string must not close the substitution.
	inner := `ls "$d (x)"`
	got := string([]byte(inner)) // keep literal for clarity
	if exp[0].Inner.Len() != uint32(len(got)) {
		t.Errorf("inner len = %d, want %d", exp[0].Inner.Len(), len(got))
	}
}

func TestBacktickSubstitution(t *testing.T) {
	lx, _ := makeTestLexer(t, "d=`date`")
	toks := collectAllTokens(lx)
	exp := toks[0].ExpansionParts()
	if len(exp) != 1 || !exp[0].Backtick {
		t.Fatalf("parts = %+v", exp)
	}
}

func TestArithmeticExpansion(t *testing.T) {
	lx, _ := makeTestLexer(t, `echo $((a + (b*2)))`)
	toks := collectAllTokens(lx)
	exp := toks[1].ExpansionParts()
	if len(exp) != 1 || exp[0].Kind != token.PartArith {
		t.Fatalf("parts = %+v", exp)
	}
}

func TestCasePatternContext(t *testing.T) {
	input := "case $1 in\nstart|stop) echo ok;;\n*) echo other;;\nesac\n"
	lx, _ := makeTestLexer(t, input)
	toks := collectAllTokens(lx)

	var sawPattern, sawEsac bool
	for _, tok := range toks {
		if tok.Kind == token.Word && tok.Text == "start" {
			if !tok.Ctx.Has(token.CtxCasePattern) {
				t.Errorf("pattern word lacks case-pattern context: %v", tok.Ctx)
			}
			sawPattern = true
		}
		if tok.Kind == token.Word && tok.Text == "ok" {
			if tok.Ctx.Has(token.CtxCasePattern) {
				t.Errorf("branch body still in case-pattern context: %v", tok.Ctx)
			}
		}
		if tok.Kind == token.KwEsac {
			sawEsac = true
		}
	}
	if !sawPattern || !sawEsac {
		t.Fatalf("pattern=%v esac=%v in %v", sawPattern, sawEsac, kinds(toks))
	}
}

func TestCasePatternParenNotSubshell(t *testing.T) {
	input := "case $1 in\nstart) x=1;;\nesac\n"
	lx, _ := makeTestLexer(t, input)
	for _, tok := range collectAllTokens(lx) {
		if tok.Ctx.Has(token.CtxSubshell) {
			t.Fatalf("case pattern ')' leaked a subshell frame: %v %v", tok.Kind, tok.Ctx)
		}
	}
}

func TestSubshellContext(t *testing.T) {
	lx, _ := makeTestLexer(t, "(cd /tmp && ls)")
	toks := collectAllTokens(lx)
	if !toks[1].Ctx.Has(token.CtxSubshell) {
		t.Errorf("word inside subshell lacks frame: %v", toks[1].Ctx)
	}
	if toks[len(toks)-1].Ctx.Has(token.CtxSubshell) {
		t.Errorf("EOF still inside subshell: %v", toks[len(toks)-1].Ctx)
	}
}

func TestHeredocBody(t *testing.T) {
	input := "cat <<EOF\nhello $name\nEOF\necho done\n"
	lx, _ := makeTestLexer(t, input)
	toks := collectAllTokens(lx)

	var body *token.Token
	for i := range toks {
		if toks[i].Kind == token.HeredocBody {
			body = &toks[i]
		}
	}
	if body == nil {
		t.Fatalf("no heredoc body in %v", kinds(toks))
	}
	if body.Text != "hello $name\n" {
		t.Errorf("body = %q", body.Text)
	}
	top := body.Ctx.Top()
	if top.Kind != token.CtxHeredoc || top.Delim != "EOF" || top.Quoted {
		t.Errorf("heredoc frame = %+v", top)
	}
	exp := body.ExpansionParts()
	if len(exp) != 1 || exp[0].Name != "name" {
		t.Errorf("body expansions = %+v", exp)
	}
}

func TestQuotedHeredocSuppressesExpansion(t *testing.T) {
	input := "cat <<'EOF'\nhello $name\nEOF\n"
	lx, _ := makeTestLexer(t, input)
	for _, tok := range collectAllTokens(lx) {
		if tok.Kind == token.HeredocBody {
			if !tok.Ctx.Top().Quoted {
				t.Error("quoted delimiter not recorded")
			}
			if len(tok.ExpansionParts()) != 0 {
				t.Errorf("quoted heredoc expanded: %+v", tok.Parts)
			}
			return
		}
	}
	t.Fatal("no heredoc body")
}

func TestHeredocStripTabs(t *testing.T) {
	input := "cat <<-EOF\n\tbody\n\tEOF\necho after\n"
	lx, _ := makeTestLexer(t, input)
	toks := collectAllTokens(lx)
	var after bool
	for _, tok := range toks {
		if tok.Kind == token.HeredocBody && tok.Text != "\tbody\n" {
			t.Errorf("body = %q", tok.Text)
		}
		if tok.Kind == token.Word && tok.Text == "after" {
			after = true
		}
	}
	if !after {
		t.Error("tokens after heredoc lost")
	}
}

func TestTwoHeredocsOneLine(t *testing.T) {
	input := "diff <(cat) - <<A <<B\none\nA\ntwo\nB\n"
	lx, _ := makeTestLexer(t, input)
	var bodies []string
	for _, tok := range collectAllTokens(lx) {
		if tok.Kind == token.HeredocBody {
			bodies = append(bodies, tok.Text)
		}
	}
	if len(bodies) != 2 || bodies[0] != "one\n" || bodies[1] != "two\n" {
		t.Errorf("bodies = %q", bodies)
	}
}

func TestComments(t *testing.T) {
	toks := expectKinds(t, "echo a # tail\n",
		token.Word, token.Word, token.Comment, token.Newline, token.EOF)
	if toks[2].Text != "# tail" {
		t.Errorf("comment text = %q", toks[2].Text)
	}
	// '#' glued to a word is literal.
	expectKinds(t, "echo a#b", token.Word, token.Word, token.EOF)
}

func TestUnterminatedConstructs(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
	}{
		{`echo "open`, diag.LexUnterminatedQuote},
		{`echo 'open`, diag.LexUnterminatedQuote},
		{`echo $(ls`, diag.LexUnterminatedSubst},
		{"echo `ls", diag.LexUnterminatedSubst},
		{`echo ${x`, diag.LexUnterminatedParam},
		{"cat <<EOF\nbody\n", diag.LexUnterminatedHeredoc},
	}
	for _, tt := range tests {
		lx, rep := makeTestLexer(t, tt.input)
		collectAllTokens(lx)
		if !rep.hasCode(tt.code) {
			t.Errorf("%q: missing %s, got %+v", tt.input, tt.code.ID(), rep.diagnostics)
		}
	}
}

func TestContextSnapshotsAreImmutable(t *testing.T) {
	lx, _ := makeTestLexer(t, "(echo a)\necho b\n")
	toks := collectAllTokens(lx)
	// The snapshot taken inside the subshell must not change after the
	// automaton pops the frame.
	if !toks[1].Ctx.Has(token.CtxSubshell) {
		t.Fatal("inner token lost its frame")
	}
	for _, tok := range toks[4:] {
		if tok.Ctx.Has(token.CtxSubshell) {
			t.Fatalf("later token %v inherited a dead frame", tok.Kind)
		}
	}
}

func TestSpansMatchText(t *testing.T) {
	input := "echo $X | grep y\n"
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.sh", []byte(input))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	for _, tok := range collectAllTokens(lx) {
		if tok.Kind == token.EOF {
			continue
		}
		if got := input[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Errorf("span/text mismatch: span=%q text=%q", got, tok.Text)
		}
	}
}

func TestRangeLexerKeepsAbsoluteSpans(t *testing.T) {
	input := "x=$(echo hi)"
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.sh", []byte(input))
	f := fs.Get(id)

	outer := lexer.New(f, lexer.Options{})
	toks := collectAllTokens(outer)
	exp := toks[0].ExpansionParts()
	if len(exp) != 1 {
		t.Fatalf("parts = %+v", exp)
	}

	base := exp[0].Ctx.Push(token.CtxFrame{Kind: token.CtxCommandSubst})
	sub := lexer.NewRange(f, exp[0].Inner.Start, exp[0].Inner.End, base, lexer.Options{})
	inner := collectAllTokens(sub)
	if inner[0].Text != "echo" {
		t.Fatalf("inner tokens = %v", kinds(inner))
	}
	if got := input[inner[0].Span.Start:inner[0].Span.End]; got != "echo" {
		t.Errorf("inner span not file-absolute: %q", got)
	}
	if !inner[0].Ctx.Has(token.CtxCommandSubst) {
		t.Errorf("inner token lacks command-subst frame: %v", inner[0].Ctx)
	}
}
