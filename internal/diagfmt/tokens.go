package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"bashguard/internal/source"
	"bashguard/internal/token"
)

// Tokens prints a human-readable token dump: one token per line with kind,
// position, context stack and text.
func Tokens(w io.Writer, toks []token.Token, fs *source.FileSet) {
	for _, t := range toks {
		start, _ := fs.Resolve(t.Span)
		fmt.Fprintf(w, "%4d:%-3d %-14s %-30q %s\n",
			start.Line, start.Col, t.Kind, t.Text, t.Ctx)
		for _, p := range t.Parts {
			fmt.Fprintf(w, "         part %-10s %-26q %s\n",
				p.Kind, fs.Text(p.Span), p.Ctx)
		}
	}
}

// TokenJSON is one token in JSON output.
type TokenJSON struct {
	Kind      string   `json:"kind"`
	Text      string   `json:"text"`
	StartByte uint32   `json:"start_byte"`
	EndByte   uint32   `json:"end_byte"`
	Line      uint32   `json:"line"`
	Col       uint32   `json:"col"`
	Context   []string `json:"context"`
}

// TokensJSON serializes the token stream.
func TokensJSON(w io.Writer, toks []token.Token, fs *source.FileSet) error {
	out := make([]TokenJSON, 0, len(toks))
	for _, t := range toks {
		start, _ := fs.Resolve(t.Span)
		out = append(out, TokenJSON{
			Kind:      t.Kind.String(),
			Text:      t.Text,
			StartByte: t.Span.Start,
			EndByte:   t.Span.End,
			Line:      start.Line,
			Col:       start.Col,
			Context:   ctxList(t.Ctx),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func ctxList(ctx token.CtxStack) []string {
	if len(ctx) == 0 {
		return []string{"unquoted"}
	}
	out := make([]string, len(ctx))
	for i, f := range ctx {
		out[i] = f.Kind.String()
		if f.Kind == token.CtxHeredoc && f.Delim != "" {
			out[i] += "(" + f.Delim + ")"
		}
	}
	return out
}
