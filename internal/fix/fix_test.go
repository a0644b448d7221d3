package fix

import (
	"bytes"
	"testing"

	"bashguard/internal/diag"
	"bashguard/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func quoteDiag(src string, start, end uint32) diag.Diagnostic {
	old := src[start:end]
	d := diag.NewWarning(diag.QuoUnquotedExpansion, sp(start, end),
		"unquoted expansion")
	return d.WithFix(diag.SafeFix("quote the expansion", diag.TextEdit{
		Span:    sp(start, end),
		OldText: old,
		NewText: `"` + old + `"`,
	}))
}

func TestApplySafeFix(t *testing.T) {
	src := "echo $x\n"
	res := Apply([]byte(src), []diag.Diagnostic{quoteDiag(src, 5, 7)}, diag.FixSafe)

	if got, want := string(res.Content), "echo \"$x\"\n"; got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 0 {
		t.Fatalf("applied=%d skipped=%d, want 1/0", len(res.Applied), len(res.Skipped))
	}
	if !res.Changed() {
		t.Fatal("Changed() = false after an applied fix")
	}
}

func TestTierGating(t *testing.T) {
	src := "mkdir build\n"
	d := diag.NewWarning(diag.IdmMkdirNoParents, sp(0, 5), "mkdir without -p")
	d = d.WithFix(diag.AssumingFix("add -p",
		[]string{"existing directories are acceptable"},
		diag.TextEdit{Span: sp(0, 5), OldText: "mkdir", NewText: "mkdir -p"}))

	res := Apply([]byte(src), []diag.Diagnostic{d}, diag.FixSafe)
	if res.Changed() {
		t.Fatalf("assumption-tier fix applied at FixSafe: %q", res.Content)
	}

	res = Apply([]byte(src), []diag.Diagnostic{d}, diag.FixSafeWithAssumptions)
	if got, want := string(res.Content), "mkdir -p build\n"; got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
}

func TestUnsafeNeverApplies(t *testing.T) {
	src := "eval \"$cmd\"\n"
	d := diag.NewError(diag.SecEvalUse, sp(0, 4), "eval on dynamic input")
	d = d.WithFix(diag.UnsafeFix("replace eval",
		"use an array and direct invocation",
		"use a case dispatch over known commands"))

	// Even asking for FixUnsafe must not apply it; the tier is clamped.
	res := Apply([]byte(src), []diag.Diagnostic{d}, diag.FixUnsafe)
	if res.Changed() {
		t.Fatalf("unsafe fix was applied: %q", res.Content)
	}
	if len(res.Skipped) != 0 {
		// Unsafe fixes carry no edits; they are not even candidates.
		t.Fatalf("unsafe fix reported as skipped: %+v", res.Skipped)
	}
}

func TestOldTextGuardRejectsStaleEdit(t *testing.T) {
	src := "echo $y\n"
	d := quoteDiag("echo $x\n", 5, 7) // guard expects "$x"

	res := Apply([]byte(src), []diag.Diagnostic{d}, diag.FixSafe)
	if res.Changed() {
		t.Fatalf("stale edit applied: %q", res.Content)
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("skipped = %d, want 1", len(res.Skipped))
	}
	if res.Skipped[0].Reason != "source text no longer matches the fix" {
		t.Fatalf("reason = %q", res.Skipped[0].Reason)
	}
}

func TestOutOfRangeSpanSkipped(t *testing.T) {
	src := "echo\n"
	d := quoteDiag("echo $x\n", 5, 7)

	res := Apply([]byte(src), []diag.Diagnostic{d}, diag.FixSafe)
	if res.Changed() {
		t.Fatal("out-of-range edit applied")
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "edit span out of range" {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
}

func TestOverlappingFixesFirstWins(t *testing.T) {
	src := "echo $x\n"
	first := quoteDiag(src, 5, 7)
	second := diag.NewWarning(diag.QuoUnquotedExpansion, sp(5, 7), "dup")
	second = second.WithFix(diag.SafeFix("quote differently", diag.TextEdit{
		Span:    sp(5, 7),
		OldText: "$x",
		NewText: "'$x'",
	}))

	res := Apply([]byte(src), []diag.Diagnostic{second, first}, diag.FixSafe)
	if got, want := string(res.Content), "echo \"$x\"\n"; got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 1 {
		t.Fatalf("applied=%d skipped=%d, want 1/1", len(res.Applied), len(res.Skipped))
	}
	if res.Skipped[0].Reason != "overlaps an already accepted fix" {
		t.Fatalf("reason = %q", res.Skipped[0].Reason)
	}
}

func TestMultiEditFix(t *testing.T) {
	src := "cat access.log | grep 500\n"
	d := diag.New(diag.SevPerf, diag.PrfUselessCat, sp(0, 14), "useless cat")
	d = d.WithFix(diag.AssumingFix("read the file via redirection",
		[]string{"the command treats stdin the same as a file argument"},
		diag.TextEdit{Span: sp(0, 17), OldText: "cat access.log | ", NewText: ""},
		diag.TextEdit{Span: sp(25, 25), OldText: "", NewText: " < access.log"},
	))

	res := Apply([]byte(src), []diag.Diagnostic{d}, diag.FixSafeWithAssumptions)
	if got, want := string(res.Content), "grep 500 < access.log\n"; got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
	if res.Applied[0].EditCount != 2 {
		t.Fatalf("edit count = %d, want 2", res.Applied[0].EditCount)
	}
}

func TestMultipleFixesApplyTogether(t *testing.T) {
	src := "cp $src $dst\n"
	diags := []diag.Diagnostic{
		quoteDiag(src, 8, 12), // $dst first: order must not matter
		quoteDiag(src, 3, 7),
	}
	res := Apply([]byte(src), diags, diag.FixSafe)
	if got, want := string(res.Content), "cp \"$src\" \"$dst\"\n"; got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
	if len(res.Applied) != 2 {
		t.Fatalf("applied = %d, want 2", len(res.Applied))
	}
}

func TestZeroWidthEditsAtSamePositionConflict(t *testing.T) {
	src := "grep 500\n"
	mk := func(text string) diag.Diagnostic {
		d := diag.New(diag.SevPerf, diag.PrfUselessCat, sp(8, 8), "insert")
		return d.WithFix(diag.SafeFix("append", diag.TextEdit{
			Span: sp(8, 8), OldText: "", NewText: text,
		}))
	}
	res := Apply([]byte(src), []diag.Diagnostic{mk(" < a"), mk(" < b")}, diag.FixSafe)
	if len(res.Applied) != 1 || len(res.Skipped) != 1 {
		t.Fatalf("applied=%d skipped=%d, want 1/1", len(res.Applied), len(res.Skipped))
	}
	if got, want := string(res.Content), "grep 500 < a\n"; got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	src := "echo $x\n"
	diags := []diag.Diagnostic{quoteDiag(src, 5, 7)}

	once := Apply([]byte(src), diags, diag.FixSafe)
	again := Apply(once.Content, diags, diag.FixSafe)

	if !bytes.Equal(once.Content, again.Content) {
		t.Fatalf("second application changed output: %q vs %q",
			once.Content, again.Content)
	}
	if again.Changed() {
		t.Fatal("second application reported changes")
	}
	if len(again.Skipped) != 1 {
		t.Fatalf("skipped = %d, want 1 (guard mismatch)", len(again.Skipped))
	}
}

func TestNoCandidatesLeavesSourceUntouched(t *testing.T) {
	src := []byte("echo hello\n")
	res := Apply(src, nil, diag.FixSafe)
	if !bytes.Equal(res.Content, src) {
		t.Fatalf("content changed with no diagnostics: %q", res.Content)
	}
	if res.Changed() {
		t.Fatal("Changed() = true with no fixes")
	}
}
