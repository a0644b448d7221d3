package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"bashguard/internal/diag"
	"bashguard/internal/driver"
	"bashguard/internal/sbfl"
	"bashguard/internal/source"
)

func fixture(t *testing.T) (*source.FileSet, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	content := []byte("DIR=/tmp\nrm -rf $DIR\n")
	id := fs.AddVirtual("deploy.sh", content)

	bag := diag.NewBag(10)
	d := diag.NewWarning(diag.QuoUnquotedExpansion,
		source.Span{File: id, Start: 16, End: 20},
		"unquoted expansion splits on whitespace")
	d = d.WithNote(source.Span{File: id, Start: 0, End: 3}, "DIR assigned here")
	d = d.WithFix(diag.SafeFix("quote the expansion", diag.TextEdit{
		Span:    source.Span{File: id, Start: 16, End: 20},
		OldText: "$DIR",
		NewText: `"$DIR"`,
	}))
	bag.Add(d)
	return fs, bag
}

func TestPrettyFormat(t *testing.T) {
	fs, bag := fixture(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, ShowFixes: true})
	out := buf.String()

	if !strings.Contains(out, "deploy.sh:2:8: WARNING QUO4001:") {
		t.Fatalf("missing header line in:\n%s", out)
	}
	if !strings.Contains(out, "rm -rf $DIR") {
		t.Fatalf("missing source line in:\n%s", out)
	}
	// Caret under $DIR: 7 spaces of padding then ^~~~.
	if !strings.Contains(out, "\n         ^~~~\n") {
		t.Fatalf("missing caret underline in:\n%s", out)
	}
	if !strings.Contains(out, "note: DIR assigned here") {
		t.Fatalf("missing note in:\n%s", out)
	}
	if !strings.Contains(out, "fix (safe): quote the expansion") {
		t.Fatalf("missing fix in:\n%s", out)
	}
	if !strings.Contains(out, `replace "$DIR" with "\"$DIR\""`) {
		t.Fatalf("missing edit description in:\n%s", out)
	}
}

func TestPrettyTruncation(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("x.sh", []byte("echo a b c\n"))
	bag := diag.NewBag(10)
	for i := uint32(0); i < 3; i++ {
		bag.Add(diag.NewWarning(diag.QuoUnquotedExpansion,
			source.Span{File: id, Start: 5 + 2*i, End: 6 + 2*i}, "m"))
	}
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Max: 1})
	if !strings.Contains(buf.String(), "... and 2 more") {
		t.Fatalf("missing truncation marker:\n%s", buf.String())
	}
}

func TestJSONOutput(t *testing.T) {
	fs, bag := fixture(t)
	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		IncludeNotes:     true,
		IncludeFixes:     true,
		IncludePreviews:  true,
	})
	if err != nil {
		t.Fatal(err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("output = %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Code != "QUO4001" || d.Group != "quoting" || d.Severity != "WARNING" {
		t.Fatalf("diag = %+v", d)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 8 {
		t.Fatalf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || len(d.Fixes) != 1 {
		t.Fatalf("notes/fixes = %d/%d", len(d.Notes), len(d.Fixes))
	}
	fx := d.Fixes[0]
	if fx.Tier != "safe" || len(fx.Edits) != 1 {
		t.Fatalf("fix = %+v", fx)
	}
	if len(fx.Edits[0].BeforeLines) == 0 ||
		fx.Edits[0].AfterLines[0] != `rm -rf "$DIR"` {
		t.Fatalf("preview = %+v", fx.Edits[0])
	}
}

func TestJSONCountSurvivesTruncation(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("x.sh", []byte("echo a\n"))
	bag := diag.NewBag(10)
	for i := uint32(0); i < 4; i++ {
		bag.Add(diag.NewWarning(diag.QuoUnquotedExpansion,
			source.Span{File: id, Start: i, End: i + 1}, "m"))
	}
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{Max: 2}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 4 || len(out.Diagnostics) != 2 {
		t.Fatalf("count=%d shown=%d, want 4/2", out.Count, len(out.Diagnostics))
	}
}

func TestLocalizationReport(t *testing.T) {
	rep := driver.Report{
		Rankings: []sbfl.Ranking{
			{Statement: "deploy.sh:12", Score: 1.0, Failed: 3, Passed: 0},
			{Statement: "deploy.sh:30", Score: 0.25, Failed: 1, Passed: 4},
		},
		Summary: sbfl.Summary{Mean: 0.625, StdDev: 0.53, Max: 1.0},
	}
	var buf bytes.Buffer
	Localization(&buf, rep, PrettyOpts{})
	out := buf.String()
	if !strings.Contains(out, "deploy.sh:12") || !strings.Contains(out, "1.0000") {
		t.Fatalf("missing ranking line:\n%s", out)
	}
	if !strings.Contains(out, "mean 0.6250") {
		t.Fatalf("missing summary:\n%s", out)
	}

	buf.Reset()
	if err := LocalizationJSON(&buf, rep); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
}
