package lexer

import (
	"strings"

	"bashguard/internal/diag"
	"bashguard/internal/source"
	"bashguard/internal/token"
)

// scanWord consumes one shell word: literal runs, quoted segments, and
// expansions, glued together without intervening blanks. Each expansion
// becomes a Part carrying the context stack in force where it occurs.
func (lx *Lexer) scanWord() token.Token {
	start := lx.cursor.Mark()
	var parts []token.Part

	litStart := lx.cursor.Off
	flushLit := func() {
		if lx.cursor.Off > litStart {
			parts = append(parts, token.Part{
				Kind: token.PartLit,
				Span: source.Span{File: lx.file.ID, Start: litStart, End: lx.cursor.Off},
				Ctx:  lx.snapshot(),
			})
		}
	}
	resumeLit := func() { litStart = lx.cursor.Off }

	sawAssign := false
	assignValueOff := uint32(0)

scan:
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch ch {
		case ' ', '\t', '\n', '|', '&', ';', '<', '>':
			break scan
		case ')':
			break scan
		case '(':
			// a=( ... ) array literals are part of the assignment word;
			// any other '(' terminates the word.
			if sawAssign && lx.cursor.Off == assignValueOff {
				flushLit()
				lx.scanArrayLiteral(&parts)
				resumeLit()
				continue
			}
			break scan
		case '\\':
			lx.cursor.Bump()
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
		case '\'':
			flushLit()
			parts = append(parts, lx.scanSingleQuoted(lx.ctx))
			resumeLit()
		case '"':
			flushLit()
			lx.scanDoubleQuoted(lx.ctx, &parts)
			resumeLit()
		case '`':
			flushLit()
			parts = append(parts, lx.scanBacktick(lx.ctx))
			resumeLit()
		case '$':
			flushLit()
			if p, ok := lx.scanDollar(lx.ctx); ok {
				parts = append(parts, p)
			} else {
				// A lone '$' is literal text.
				lx.cursor.Bump()
			}
			resumeLit()
		case '[':
			// name[expr]=v is an array element assignment; the subscript
			// opens its own context so $i inside a[$i] is not flagged as
			// an unquoted expansion.
			if lx.atCmdStart && !sawAssign && isName(lx.textFrom(start)) {
				flushLit()
				lx.scanSubscript(&parts)
				resumeLit()
				continue
			}
			lx.cursor.Bump()
		case '=':
			if !sawAssign && lx.atCmdStart && isAssignPrefix(lx.textFrom(start)) {
				sawAssign = true
				lx.cursor.Bump()
				assignValueOff = lx.cursor.Off
				continue
			}
			lx.cursor.Bump()
		case '+':
			if !sawAssign && lx.atCmdStart && lx.cursor.PeekAt(1) == '=' &&
				isAssignPrefix(lx.textFrom(start)) {
				sawAssign = true
				lx.cursor.Bump()
				lx.cursor.Bump()
				assignValueOff = lx.cursor.Off
				continue
			}
			lx.cursor.Bump()
		default:
			lx.cursor.Bump()
		}
	}
	flushLit()

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])

	kind := token.Word
	switch {
	case sawAssign:
		kind = token.AssignWord
	case isAllDigits(text) && (lx.cursor.Peek() == '<' || lx.cursor.Peek() == '>'):
		kind = token.IONumber
	}

	return token.Token{Kind: kind, Span: sp, Text: text, Ctx: lx.snapshot(), Parts: parts}
}

func (lx *Lexer) textFrom(m Mark) string {
	return string(lx.file.Content[uint32(m):lx.cursor.Off])
}

// scanSingleQuoted consumes '...' where nothing expands and no escape exists.
func (lx *Lexer) scanSingleQuoted(ctx token.CtxStack) token.Part {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\'' {
		lx.cursor.Bump()
	}
	if lx.cursor.EOF() {
		lx.errLex(diag.LexUnterminatedQuote, lx.cursor.SpanFrom(start),
			"single-quoted string is never closed")
	} else {
		lx.cursor.Bump() // closing quote
	}
	return token.Part{
		Kind: token.PartSingleQuoted,
		Span: lx.cursor.SpanFrom(start),
		Ctx:  ctx.Push(token.CtxFrame{Kind: token.CtxSingleQuoted}),
	}
}

// scanDoubleQuoted consumes "..." and appends a PartDoubleQuoted covering the
// whole segment followed by one part per expansion inside it. Inner parts
// carry the quoted context so downstream rules see them as protected.
func (lx *Lexer) scanDoubleQuoted(ctx token.CtxStack, parts *[]token.Part) {
	start := lx.cursor.Mark()
	qctx := ctx.Push(token.CtxFrame{Kind: token.CtxDoubleQuoted})

	lx.cursor.Bump() // opening quote
	segIdx := len(*parts)
	*parts = append(*parts, token.Part{Kind: token.PartDoubleQuoted, Ctx: qctx})

	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '"':
			lx.cursor.Bump()
			(*parts)[segIdx].Span = lx.cursor.SpanFrom(start)
			return
		case '\\':
			lx.cursor.Bump()
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
		case '$':
			if p, ok := lx.scanDollar(qctx); ok {
				*parts = append(*parts, p)
			} else {
				lx.cursor.Bump()
			}
		case '`':
			*parts = append(*parts, lx.scanBacktick(qctx))
		default:
			lx.cursor.Bump()
		}
	}
	lx.errLex(diag.LexUnterminatedQuote, lx.cursor.SpanFrom(start),
		"double-quoted string is never closed")
	(*parts)[segIdx].Span = lx.cursor.SpanFrom(start)
}

// scanDollar dispatches $name, ${...}, $(...), $((...)), and the special
// parameters. ctx is the context in force at the '$'; it is recorded on the
// part so rules can test quoting without re-deriving it.
func (lx *Lexer) scanDollar(ctx token.CtxStack) (token.Part, bool) {
	start := lx.cursor.Mark()
	next := lx.cursor.PeekAt(1)

	switch {
	case next == '(' && lx.cursor.PeekAt(2) == '(':
		return lx.scanArith(ctx, start), true
	case next == '(':
		return lx.scanCmdSubst(ctx, start), true
	case next == '{':
		return lx.scanParamExpansion(ctx, start), true
	case isNameStart(next):
		lx.cursor.Bump() // '$'
		nameStart := lx.cursor.Off
		for isNameChar(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return token.Part{
			Kind: token.PartVar,
			Span: lx.cursor.SpanFrom(start),
			Name: string(lx.file.Content[nameStart:lx.cursor.Off]),
			Ctx:  ctx,
		}, true
	case next >= '0' && next <= '9':
		lx.cursor.Bump()
		d := lx.cursor.Bump()
		return token.Part{
			Kind: token.PartVar,
			Span: lx.cursor.SpanFrom(start),
			Name: string(d),
			Ctx:  ctx,
		}, true
	case isSpecialParam(next):
		lx.cursor.Bump()
		d := lx.cursor.Bump()
		return token.Part{
			Kind: token.PartVar,
			Span: lx.cursor.SpanFrom(start),
			Name: string(d),
			Ctx:  ctx,
		}, true
	default:
		return token.Part{}, false
	}
}

// scanParamExpansion consumes ${...}, tolerating nested braces and quoted
// sections inside the expansion operators.
func (lx *Lexer) scanParamExpansion(ctx token.CtxStack, start Mark) token.Part {
	lx.cursor.Bump() // '$'
	lx.cursor.Bump() // '{'
	innerStart := lx.cursor.Off

	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		switch lx.cursor.Bump() {
		case '{':
			depth++
		case '}':
			depth--
		case '\\':
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
		case '\'':
			lx.skipSingleQuotedRaw()
		}
	}
	innerEnd := lx.cursor.Off
	if depth > 0 {
		lx.errLex(diag.LexUnterminatedParam, lx.cursor.SpanFrom(start),
			"parameter expansion '${' is never closed")
	} else {
		innerEnd-- // exclude the closing brace
	}

	inner := string(lx.file.Content[innerStart:innerEnd])
	return token.Part{
		Kind:   token.PartVar,
		Span:   lx.cursor.SpanFrom(start),
		Name:   paramExpansionName(inner),
		Inner:  source.Span{File: lx.file.ID, Start: innerStart, End: innerEnd},
		Ctx:    ctx,
		Braced: true,
	}
}

// paramExpansionName extracts the variable name from a ${...} body:
// "x:-def" -> "x", "#arr[@]" -> "arr", "!ref" -> "ref".
func paramExpansionName(inner string) string {
	if inner == "" {
		return ""
	}
	// ${#x} is length-of, ${!x} is indirection; ${#} and ${!} name the
	// special parameters themselves.
	if (inner[0] == '#' || inner[0] == '!') && len(inner) > 1 && isNameStart(inner[1]) {
		inner = inner[1:]
	}
	if isSpecialParam(inner[0]) || (inner[0] >= '0' && inner[0] <= '9') {
		return inner[:1]
	}
	end := 0
	for end < len(inner) && isNameChar(inner[end]) {
		end++
	}
	return inner[:end]
}

// scanCmdSubst consumes $( ... ) with balanced parentheses, skipping quoted
// regions so ')' inside strings does not close the substitution. The body is
// recorded as Inner and re-lexed by the parser with a CommandSubst frame.
func (lx *Lexer) scanCmdSubst(ctx token.CtxStack, start Mark) token.Part {
	lx.cursor.Bump() // '$'
	lx.cursor.Bump() // '('
	innerStart := lx.cursor.Off

	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		switch lx.cursor.Bump() {
		case '(':
			depth++
		case ')':
			depth--
		case '\\':
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
		case '\'':
			lx.skipSingleQuotedRaw()
		case '"':
			lx.skipDoubleQuotedRaw()
		case '#':
			// Comments inside the body run to end of line; a ')' there
			// must not close the substitution.
			if lx.isCommentPosition() {
				lx.skipToLineEnd()
			}
		}
	}
	innerEnd := lx.cursor.Off
	if depth > 0 {
		lx.errLex(diag.LexUnterminatedSubst, lx.cursor.SpanFrom(start),
			"command substitution '$(' is never closed")
	} else {
		innerEnd--
	}

	return token.Part{
		Kind:  token.PartCmdSubst,
		Span:  lx.cursor.SpanFrom(start),
		Inner: source.Span{File: lx.file.ID, Start: innerStart, End: innerEnd},
		Ctx:   ctx,
	}
}

// scanArith consumes $(( ... )). Parentheses inside the expression nest.
func (lx *Lexer) scanArith(ctx token.CtxStack, start Mark) token.Part {
	lx.cursor.Bump() // '$'
	lx.cursor.Bump() // '('
	lx.cursor.Bump() // '('
	innerStart := lx.cursor.Off

	depth := 2
	for !lx.cursor.EOF() && depth > 0 {
		switch lx.cursor.Bump() {
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	innerEnd := lx.cursor.Off
	if depth > 0 {
		lx.errLex(diag.LexUnterminatedArith, lx.cursor.SpanFrom(start),
			"arithmetic expansion '$((' is never closed")
	} else if innerEnd >= 2 {
		innerEnd -= 2
	}

	return token.Part{
		Kind:  token.PartArith,
		Span:  lx.cursor.SpanFrom(start),
		Inner: source.Span{File: lx.file.ID, Start: innerStart, End: innerEnd},
		Ctx:   ctx,
	}
}

// scanBacktick consumes legacy `...` substitution. Backticks do not nest;
// escaped backticks stay inside the body.
func (lx *Lexer) scanBacktick(ctx token.CtxStack) token.Part {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening tick
	innerStart := lx.cursor.Off

	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '`':
			return token.Part{
				Kind:     token.PartCmdSubst,
				Span:     lx.cursor.SpanFrom(start),
				Inner:    source.Span{File: lx.file.ID, Start: innerStart, End: lx.cursor.Off - 1},
				Ctx:      ctx,
				Backtick: true,
			}
		case '\\':
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
		}
	}
	lx.errLex(diag.LexUnterminatedSubst, lx.cursor.SpanFrom(start),
		"backquoted substitution is never closed")
	return token.Part{
		Kind:     token.PartCmdSubst,
		Span:     lx.cursor.SpanFrom(start),
		Inner:    source.Span{File: lx.file.ID, Start: innerStart, End: lx.cursor.Off},
		Ctx:      ctx,
		Backtick: true,
	}
}

// scanSubscript consumes a[...] after an array name. Expansions inside the
// subscript get an array-subscript frame.
func (lx *Lexer) scanSubscript(parts *[]token.Part) {
	start := lx.cursor.Mark()
	sctx := lx.ctx.Push(token.CtxFrame{Kind: token.CtxArraySubscript})
	lx.cursor.Bump() // '['

	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		switch lx.cursor.Peek() {
		case '[':
			depth++
			lx.cursor.Bump()
		case ']':
			depth--
			lx.cursor.Bump()
		case '$':
			if p, ok := lx.scanDollar(sctx); ok {
				*parts = append(*parts, p)
			} else {
				lx.cursor.Bump()
			}
		case '\'':
			lx.cursor.Bump()
			lx.skipSingleQuotedRaw()
		case '\n':
			depth = 0 // a subscript never spans lines
		default:
			lx.cursor.Bump()
		}
	}
	if lx.cursor.EOF() && depth > 0 {
		lx.errLex(diag.LexUnterminatedSubscr, lx.cursor.SpanFrom(start),
			"array subscript '[' is never closed")
	}
}

// scanArrayLiteral consumes the ( ... ) value of an array assignment.
// Expansions inside the literal surface as parts with the current context.
func (lx *Lexer) scanArrayLiteral(parts *[]token.Part) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '('

	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		switch lx.cursor.Peek() {
		case '(':
			depth++
			lx.cursor.Bump()
		case ')':
			depth--
			lx.cursor.Bump()
		case '\'':
			*parts = append(*parts, lx.scanSingleQuoted(lx.ctx))
		case '"':
			lx.scanDoubleQuoted(lx.ctx, parts)
		case '$':
			if p, ok := lx.scanDollar(lx.ctx); ok {
				*parts = append(*parts, p)
			} else {
				lx.cursor.Bump()
			}
		case '`':
			*parts = append(*parts, lx.scanBacktick(lx.ctx))
		case '\\':
			lx.cursor.Bump()
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
		default:
			lx.cursor.Bump()
		}
	}
	if depth > 0 {
		lx.errLex(diag.LexUnterminatedSubst, lx.cursor.SpanFrom(start),
			"array literal '(' is never closed")
	}
}

// skipSingleQuotedRaw advances past a single-quoted region whose opening
// quote is already consumed.
func (lx *Lexer) skipSingleQuotedRaw() {
	for !lx.cursor.EOF() && lx.cursor.Bump() != '\'' {
	}
}

// skipDoubleQuotedRaw advances past a double-quoted region whose opening
// quote is already consumed, honoring backslash escapes.
func (lx *Lexer) skipDoubleQuotedRaw() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '"':
			return
		case '\\':
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
		}
	}
}

func (lx *Lexer) skipToLineEnd() {
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
}

// isCommentPosition reports whether the byte before the just-consumed '#'
// was a word separator, i.e. the '#' starts a comment.
func (lx *Lexer) isCommentPosition() bool {
	if lx.cursor.Off < 2 {
		return true
	}
	switch lx.file.Content[lx.cursor.Off-2] {
	case ' ', '\t', '\n', ';', '&', '|', '(':
		return true
	default:
		return false
	}
}

// heredocDelimiter derives the delimiter string and quoting from the word
// that follows << or <<-. Quote characters are stripped; any quoting at all
// disables expansion in the body.
func heredocDelimiter(tok token.Token) (delim string, quoted bool) {
	raw := tok.Text
	quoted = strings.ContainsAny(raw, "'\"\\")
	delim = strings.Map(func(r rune) rune {
		switch r {
		case '\'', '"', '\\':
			return -1
		default:
			return r
		}
	}, raw)
	return delim, quoted
}
