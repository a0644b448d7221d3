package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bashguard/internal/diag"
	"bashguard/internal/source"
)

var (
	colorError   = color.New(color.FgRed, color.Bold)
	colorRisk    = color.New(color.FgMagenta, color.Bold)
	colorWarning = color.New(color.FgYellow, color.Bold)
	colorPerf    = color.New(color.FgCyan)
	colorInfo    = color.New(color.FgBlue)
	colorCaret   = color.New(color.FgGreen, color.Bold)
	colorDim     = color.New(color.Faint)
)

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return colorError
	case diag.SevRisk:
		return colorRisk
	case diag.SevWarning:
		return colorWarning
	case diag.SevPerf:
		return colorPerf
	default:
		return colorInfo
	}
}

// Pretty renders diagnostics for humans. Callers are expected to sort the
// bag first. Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a caret underline over the span, then
// notes and fix proposals in the same shape.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	items := bag.Items()
	shown := len(items)
	if opts.Max > 0 && shown > opts.Max {
		shown = opts.Max
	}
	for i := range items[:shown] {
		prettyOne(w, &items[i], fs, opts)
	}
	if hidden := len(items) - shown; hidden > 0 {
		fmt.Fprintf(w, "... and %d more\n", hidden)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := d.Severity.String()
	code := d.Code.ID()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
		code = colorDim.Sprint(code)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		formatPos(fs, d.Primary, opts.PathMode), sev, code, d.Message)
	writeSourceLine(w, fs, d.Primary, opts)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s: note: %s\n",
				formatPos(fs, n.Span, opts.PathMode), n.Msg)
			writeSourceLine(w, fs, n.Span, opts)
		}
	}
	if opts.ShowFixes {
		for _, f := range d.Fixes {
			prettyFix(w, f, opts)
		}
	}
}

func prettyFix(w io.Writer, f diag.Fix, opts PrettyOpts) {
	tier := f.Tier.String()
	if opts.Color {
		tier = colorDim.Sprint(tier)
	}
	fmt.Fprintf(w, "  fix (%s): %s\n", tier, f.Title)
	for _, a := range f.Assumptions {
		fmt.Fprintf(w, "    assumes: %s\n", a)
	}
	for _, alt := range f.Alternatives {
		fmt.Fprintf(w, "    alternative: %s\n", alt)
	}
	for _, e := range f.Edits {
		if e.OldText == "" {
			fmt.Fprintf(w, "    insert %q\n", e.NewText)
		} else if e.NewText == "" {
			fmt.Fprintf(w, "    delete %q\n", e.OldText)
		} else {
			fmt.Fprintf(w, "    replace %q with %q\n", e.OldText, e.NewText)
		}
	}
}

func formatPos(fs *source.FileSet, sp source.Span, mode PathMode) string {
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	var path string
	switch mode {
	case PathModeAbsolute:
		path = f.FormatPath("absolute", "")
	case PathModeRelative:
		path = f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		path = f.FormatPath("basename", "")
	default:
		path = f.FormatPath("auto", "")
	}
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

// writeSourceLine prints the first line the span covers with a caret
// underline. Column math uses display width so tabs and wide runes keep the
// carets under the flagged text.
func writeSourceLine(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	if sp.Empty() && sp.Start == 0 {
		return
	}
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}

	fmt.Fprintf(w, "  %s\n", line)

	startCol := int(start.Col) - 1
	endCol := int(end.Col) - 1
	if end.Line != start.Line || endCol <= startCol {
		endCol = startCol + 1
	}
	if startCol > len(line) {
		startCol = len(line)
	}
	if endCol > len(line) {
		endCol = len(line)
	}

	pad := runewidth.StringWidth(line[:startCol])
	width := runewidth.StringWidth(line[startCol:endCol])
	if width < 1 {
		width = 1
	}
	caret := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		caret = colorCaret.Sprint(caret)
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), caret)
}
