package diag

import (
	"bashguard/internal/source"
)

// ExportSpan is the serialized span schema shared with downstream consumers.
// Lines and columns are 1-indexed; columns are end-exclusive.
type ExportSpan struct {
	File      string `json:"file"`
	StartLine uint32 `json:"start_line"`
	StartCol  uint32 `json:"start_col"`
	EndLine   uint32 `json:"end_line"`
	EndCol    uint32 `json:"end_col"`
}

// ExportRecord is the flattened diagnostic form consumed by learning
// pipelines. Confidence encodes the severity policy: Risk findings are
// explicitly low-confidence because they depend on unobservable state.
type ExportRecord struct {
	ErrorCode  string     `json:"error_code"`
	Level      string     `json:"level"`
	Message    string     `json:"message"`
	Confidence float64    `json:"confidence,omitempty"`
	Span       ExportSpan `json:"span"`
	Suggestion string     `json:"suggestion,omitempty"`
}

// exportConfidence is total over Severity: every severity has an image.
func exportConfidence(s Severity) float64 {
	switch s {
	case SevError:
		return 0.9
	case SevWarning:
		return 0.75
	case SevRisk:
		return 0.4
	case SevPerf:
		return 0.6
	case SevInfo:
		return 0.3
	}
	return 0.3
}

// Export flattens diagnostics into records for the ML boundary. Only Safe and
// SafeWithAssumptions fixes produce a suggestion; Unsafe alternatives are
// intentionally excluded from the suggestion field.
func Export(diags []Diagnostic, fs *source.FileSet) []ExportRecord {
	out := make([]ExportRecord, 0, len(diags))
	for _, d := range diags {
		start, end := fs.Resolve(d.Primary)
		f := fs.Get(d.Primary.File)
		rec := ExportRecord{
			ErrorCode:  d.Code.ID(),
			Level:      d.Severity.String(),
			Message:    d.Message,
			Confidence: exportConfidence(d.Severity),
			Span: ExportSpan{
				File:      f.FormatPath("auto", fs.BaseDir()),
				StartLine: start.Line,
				StartCol:  start.Col,
				EndLine:   end.Line,
				EndCol:    end.Col,
			},
		}
		if fix, ok := d.PreferredFix(FixSafeWithAssumptions); ok && len(fix.Edits) > 0 {
			rec.Suggestion = fix.Edits[0].NewText
		}
		out = append(out, rec)
	}
	return out
}
