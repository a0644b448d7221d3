package lexer

import (
	"bashguard/internal/diag"
	"bashguard/internal/source"
)

// Options configures a Lexer. A nil Reporter silently drops lexical errors
// but scanning still continues.
type Options struct {
	Reporter diag.Reporter
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(diag.NewError(code, sp, msg))
	}
}
