package lexer

import (
	"strings"

	"bashguard/internal/diag"
	"bashguard/internal/source"
	"bashguard/internal/token"
)

// collectHeredocBodies consumes the bodies of all heredocs opened on the line
// just terminated, in the order their operators appeared, and queues one
// HeredocBody token per heredoc. The newline token itself is already emitted.
func (lx *Lexer) collectHeredocBodies() {
	for _, p := range lx.pending {
		lx.queue = append(lx.queue, lx.collectOneHeredoc(p))
	}
	lx.pending = nil
}

func (lx *Lexer) collectOneHeredoc(p pendingHeredoc) token.Token {
	bodyStart := lx.cursor.Off
	bodyEnd := bodyStart
	terminated := false

	for !lx.cursor.EOF() {
		lineStart := lx.cursor.Off
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		line := string(lx.file.Content[lineStart:lx.cursor.Off])
		if !lx.cursor.EOF() {
			lx.cursor.Bump() // newline
		}

		check := line
		if p.stripTabs {
			check = strings.TrimLeft(check, "\t")
		}
		if check == p.delim {
			bodyEnd = lineStart
			terminated = true
			break
		}
		bodyEnd = lx.cursor.Off
	}

	if !terminated {
		bodyEnd = lx.cursor.Off
		lx.errLex(diag.LexUnterminatedHeredoc, p.opSpan,
			"heredoc delimited by '"+p.delim+"' is never terminated")
	}

	sp := source.Span{File: lx.file.ID, Start: bodyStart, End: bodyEnd}
	hctx := lx.ctx.Push(token.CtxFrame{Kind: token.CtxHeredoc, Delim: p.delim, Quoted: p.quoted})

	tok := token.Token{
		Kind: token.HeredocBody,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
		Ctx:  hctx,
	}
	if !p.quoted {
		tok.Parts = lx.scanHeredocParts(sp, hctx)
	}
	return tok
}

// scanHeredocParts finds the expansions inside an unquoted heredoc body.
// Quote characters are plain text there, so only '$' and '`' matter.
func (lx *Lexer) scanHeredocParts(sp source.Span, hctx token.CtxStack) []token.Part {
	sub := &Lexer{
		file:   lx.file,
		cursor: NewRangeCursor(lx.file, sp.Start, sp.End),
		opts:   lx.opts,
		ctx:    hctx,
	}

	var parts []token.Part
	for !sub.cursor.EOF() {
		switch sub.cursor.Peek() {
		case '\\':
			sub.cursor.Bump()
			if !sub.cursor.EOF() {
				sub.cursor.Bump()
			}
		case '$':
			if p, ok := sub.scanDollar(hctx); ok {
				parts = append(parts, p)
			} else {
				sub.cursor.Bump()
			}
		case '`':
			parts = append(parts, sub.scanBacktick(hctx))
		default:
			sub.cursor.Bump()
		}
	}
	return parts
}
