package diagfmt

import (
	"encoding/json"
	"io"

	"bashguard/internal/diag"
	"bashguard/internal/source"
)

// LocationJSON is a file position in JSON output. Byte offsets are always
// present; line/col only with IncludePositions.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is a secondary note in JSON output.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON is one edit of a fix in JSON output.
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

// FixJSON is a fix proposal in JSON output. Tier is the static safety
// classification; unsafe fixes carry alternatives and no edits.
type FixJSON struct {
	Title        string        `json:"title"`
	Tier         string        `json:"tier"`
	Assumptions  []string      `json:"assumptions,omitempty"`
	Alternatives []string      `json:"alternatives,omitempty"`
	Edits        []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON is one diagnostic in JSON output.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Group    string       `json:"group"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON report.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, opts JSONOpts) LocationJSON {
	f := fs.Get(span.File)
	var path string
	switch opts.PathMode {
	case PathModeAbsolute:
		path = f.FormatPath("absolute", "")
	case PathModeRelative:
		path = f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		path = f.FormatPath("basename", "")
	default:
		path = f.FormatPath("auto", "")
	}

	loc := LocationJSON{
		File:      path,
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if opts.IncludePositions {
		start, end := fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func makeDiagnostic(d *diag.Diagnostic, fs *source.FileSet, opts JSONOpts) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Group:    d.Code.Group(),
		Message:  d.Message,
		Location: makeLocation(d.Primary, fs, opts),
	}
	if opts.IncludeNotes {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, NoteJSON{
				Message:  n.Msg,
				Location: makeLocation(n.Span, fs, opts),
			})
		}
	}
	if opts.IncludeFixes {
		for _, f := range d.Fixes {
			out.Fixes = append(out.Fixes, makeFix(f, fs, opts))
		}
	}
	return out
}

func makeFix(f diag.Fix, fs *source.FileSet, opts JSONOpts) FixJSON {
	out := FixJSON{
		Title:        f.Title,
		Tier:         f.Tier.String(),
		Assumptions:  f.Assumptions,
		Alternatives: f.Alternatives,
	}
	for _, e := range f.Edits {
		ej := FixEditJSON{
			Location: makeLocation(e.Span, fs, opts),
			NewText:  e.NewText,
			OldText:  e.OldText,
		}
		if opts.IncludePreviews {
			if pv, err := buildFixEditPreview(fs, e); err == nil {
				ej.BeforeLines = pv.before
				ej.AfterLines = pv.after
			}
		}
		out.Edits = append(out.Edits, ej)
	}
	return out
}

// JSON serializes the bag as an indented DiagnosticsOutput document.
// Count reflects the full bag even when Max truncates the list.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	items := bag.Items()
	shown := len(items)
	if opts.Max > 0 && shown > opts.Max {
		shown = opts.Max
	}
	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, shown),
		Count:       len(items),
	}
	for i := range items[:shown] {
		out.Diagnostics = append(out.Diagnostics, makeDiagnostic(&items[i], fs, opts))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
