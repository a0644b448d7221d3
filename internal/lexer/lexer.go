package lexer

import (
	"bashguard/internal/diag"
	"bashguard/internal/source"
	"bashguard/internal/token"
)

// caseLexState tracks where the lexer stands inside a case statement, which
// decides when 'in' and 'esac' are reserved and when words are patterns.
type caseLexState uint8

const (
	caseExpectWord caseLexState = iota
	caseExpectIn
	casePatterns
	caseBody
)

// pendingHeredoc is a heredoc whose body is collected after the next newline.
type pendingHeredoc struct {
	delim     string
	stripTabs bool
	quoted    bool
	opSpan    source.Span
}

// Lexer produces tokens for one script or one sub-range of it (command
// substitution bodies are re-lexed in place with the enclosing context as
// base, keeping spans file-absolute).
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options

	// ctx is the live context automaton stack; tokens receive snapshots.
	ctx token.CtxStack

	queue []token.Token // tokens ready ahead of the cursor (heredoc bodies)
	look  *token.Token  // 1-token lookahead buffer

	atCmdStart         bool
	afterFor           bool // next word is the for-loop variable
	afterForVar        bool // 'in' or 'do' may follow
	nextIsHeredocDelim bool
	nextHeredocStrips  bool

	pending   []pendingHeredoc
	caseStack []caseLexState
}

// New creates a lexer over the whole file.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:       file,
		cursor:     NewCursor(file),
		opts:       opts,
		atCmdStart: true,
	}
}

// NewRange creates a lexer over [start, end) with base as the enclosing
// context stack. Used to lex command-substitution bodies.
func NewRange(file *source.File, start, end uint32, base token.CtxStack, opts Options) *Lexer {
	return &Lexer{
		file:       file,
		cursor:     NewRangeCursor(file, start, end),
		opts:       opts,
		ctx:        base,
		atCmdStart: true,
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Next returns the next token. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if len(lx.queue) > 0 {
		tok := lx.queue[0]
		lx.queue = lx.queue[1:]
		return tok
	}

	lx.skipBlanks()

	if lx.cursor.EOF() {
		lx.flushUnterminatedHeredocs()
		return token.Token{Kind: token.EOF, Span: lx.emptySpan(), Ctx: lx.snapshot()}
	}

	ch := lx.cursor.Peek()
	switch {
	case ch == '\n':
		return lx.scanNewline()
	case ch == '#':
		return lx.scanComment()
	case isOperatorStart(ch):
		if tok, ok := lx.tryOperator(); ok {
			return tok
		}
		return lx.scanWordToken()
	default:
		if tok, ok := lx.tryBracketOrBang(); ok {
			return tok
		}
		return lx.scanWordToken()
	}
}

// Tokenize drains the lexer into a slice ending with EOF.
func (lx *Lexer) Tokenize() []token.Token {
	tokens := make([]token.Token, 0, 64)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// snapshot returns an immutable copy of the live context stack.
func (lx *Lexer) snapshot() token.CtxStack {
	if len(lx.ctx) == 0 {
		return nil
	}
	out := make(token.CtxStack, len(lx.ctx))
	copy(out, lx.ctx)
	return out
}

// skipBlanks consumes spaces, tabs, and backslash-newline continuations.
func (lx *Lexer) skipBlanks() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t':
			lx.cursor.Bump()
		case '\\':
			if lx.cursor.PeekAt(1) == '\n' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				continue
			}
			return
		default:
			return
		}
	}
}

func (lx *Lexer) scanNewline() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	tok := token.Token{
		Kind: token.Newline,
		Span: lx.cursor.SpanFrom(start),
		Text: "\n",
		Ctx:  lx.snapshot(),
	}
	// Heredoc bodies start on the line after their redirection operator.
	if len(lx.pending) > 0 {
		lx.collectHeredocBodies()
	}
	lx.atCmdStart = true
	lx.afterFor = false
	lx.afterForVar = false
	return tok
}

// scanComment consumes '#' to end of line. Comments are only recognized here,
// at token-start position in unquoted context; '#' inside words, quotes, and
// heredoc bodies never reaches this path.
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: token.Comment,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
		Ctx:  lx.snapshot(),
	}
}

func isOperatorStart(ch byte) bool {
	switch ch {
	case '|', '&', ';', '(', ')', '<', '>':
		return true
	default:
		return false
	}
}

// tryOperator scans |, ||, &, &&, &>, ;, ;;, (, ), and the redirection
// operators with maximal munch.
func (lx *Lexer) tryOperator() (token.Token, bool) {
	start := lx.cursor.Mark()
	kind := token.Invalid

	switch lx.cursor.Bump() {
	case '|':
		if lx.cursor.Eat('|') {
			kind = token.OrIf
		} else {
			kind = token.Pipe
		}
	case '&':
		switch {
		case lx.cursor.Eat('&'):
			kind = token.AndIf
		case lx.cursor.Eat('>'):
			kind = token.AndGreat
		default:
			kind = token.Amp
		}
	case ';':
		if lx.cursor.Eat(';') {
			kind = token.DSemi
		} else {
			kind = token.Semi
		}
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '<':
		switch {
		case lx.cursor.Eat('<'):
			switch {
			case lx.cursor.Eat('<'):
				kind = token.TLess
			case lx.cursor.Eat('-'):
				kind = token.DLessDash
			default:
				kind = token.DLess
			}
		case lx.cursor.Eat('&'):
			kind = token.LessAnd
		default:
			kind = token.Less
		}
	case '>':
		switch {
		case lx.cursor.Eat('>'):
			kind = token.DGreat
		case lx.cursor.Eat('&'):
			kind = token.GreatAnd
		default:
			kind = token.Great
		}
	}

	sp := lx.cursor.SpanFrom(start)
	tok := token.Token{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
		Ctx:  lx.snapshot(),
	}
	lx.noteOperator(tok)
	return tok, true
}

// noteOperator updates automaton state after an operator token.
func (lx *Lexer) noteOperator(tok token.Token) {
	switch tok.Kind {
	case token.Pipe, token.AndIf, token.OrIf, token.Semi, token.Amp:
		lx.atCmdStart = true
	case token.DSemi:
		lx.atCmdStart = true
		if n := len(lx.caseStack); n > 0 && lx.caseStack[n-1] == caseBody {
			lx.caseStack[n-1] = casePatterns
			lx.ctx = lx.ctx.Push(token.CtxFrame{Kind: token.CtxCasePattern})
		}
	case token.LParen:
		lx.atCmdStart = true
		if !lx.inCasePatterns() {
			lx.ctx = lx.ctx.Push(token.CtxFrame{Kind: token.CtxSubshell})
		}
	case token.RParen:
		lx.atCmdStart = true
		if n := len(lx.caseStack); n > 0 && lx.caseStack[n-1] == casePatterns {
			lx.caseStack[n-1] = caseBody
			if lx.ctx.Top().Kind == token.CtxCasePattern {
				lx.ctx = lx.ctx.Pop()
			}
		} else if lx.ctx.Top().Kind == token.CtxSubshell {
			lx.ctx = lx.ctx.Pop()
		}
	case token.DLess, token.DLessDash:
		lx.nextIsHeredocDelim = true
		lx.nextHeredocStrips = tok.Kind == token.DLessDash
	}
}

func (lx *Lexer) inCasePatterns() bool {
	n := len(lx.caseStack)
	return n > 0 && lx.caseStack[n-1] == casePatterns
}

// tryBracketOrBang recognizes the standalone tokens {, }, [[, ]], and !.
// All of them are ordinary word characters unless delimited.
func (lx *Lexer) tryBracketOrBang() (token.Token, bool) {
	ch := lx.cursor.Peek()
	emit := func(kind token.Kind, n uint32) (token.Token, bool) {
		start := lx.cursor.Mark()
		for i := uint32(0); i < n; i++ {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		tok := token.Token{
			Kind: kind,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
			Ctx:  lx.snapshot(),
		}
		switch kind {
		case token.LBrace, token.Bang:
			lx.atCmdStart = true
		case token.RBrace, token.DRBracket:
			lx.atCmdStart = false
		case token.DLBracket:
			lx.atCmdStart = false
		}
		return tok, true
	}

	switch ch {
	case '{':
		if lx.atCmdStart && isWordEnd(lx.cursor.PeekAt(1)) {
			return emit(token.LBrace, 1)
		}
	case '}':
		if isWordEnd(lx.cursor.PeekAt(1)) {
			return emit(token.RBrace, 1)
		}
	case '[':
		if lx.atCmdStart && lx.cursor.PeekAt(1) == '[' && isBlankOrEnd(lx.cursor.PeekAt(2)) {
			return emit(token.DLBracket, 2)
		}
	case ']':
		if lx.cursor.PeekAt(1) == ']' && isWordEnd(lx.cursor.PeekAt(2)) {
			return emit(token.DRBracket, 2)
		}
	case '!':
		if lx.atCmdStart && isBlankOrEnd(lx.cursor.PeekAt(1)) {
			return emit(token.Bang, 1)
		}
	}
	return token.Token{}, false
}

// scanWordToken scans a word and applies reserved-word promotion and
// heredoc-delimiter bookkeeping.
func (lx *Lexer) scanWordToken() token.Token {
	tok := lx.scanWord()

	if lx.nextIsHeredocDelim {
		lx.nextIsHeredocDelim = false
		delim, quoted := heredocDelimiter(tok)
		lx.pending = append(lx.pending, pendingHeredoc{
			delim:     delim,
			stripTabs: lx.nextHeredocStrips,
			quoted:    quoted,
			opSpan:    tok.Span,
		})
		return tok
	}

	lx.promoteKeyword(&tok)
	lx.noteWord(tok)
	return tok
}

// promoteKeyword upgrades a literal word to a reserved-word token when it
// appears in a position where the shell grammar reserves it.
func (lx *Lexer) promoteKeyword(tok *token.Token) {
	if tok.Kind != token.Word || len(tok.Parts) != 1 || tok.Parts[0].Kind != token.PartLit {
		return
	}
	kw, ok := token.LookupKeyword(tok.Text)
	if !ok {
		return
	}

	switch kw {
	case token.KwIn:
		n := len(lx.caseStack)
		if n > 0 && lx.caseStack[n-1] == caseExpectIn {
			tok.Kind = token.KwIn
			lx.caseStack[n-1] = casePatterns
			lx.ctx = lx.ctx.Push(token.CtxFrame{Kind: token.CtxCasePattern})
			return
		}
		if lx.afterForVar {
			tok.Kind = token.KwIn
			return
		}
	case token.KwEsac:
		if n := len(lx.caseStack); n > 0 {
			st := lx.caseStack[n-1]
			if st == casePatterns || (st == caseBody && lx.atCmdStart) {
				tok.Kind = token.KwEsac
				if st == casePatterns && lx.ctx.Top().Kind == token.CtxCasePattern {
					lx.ctx = lx.ctx.Pop()
				}
				lx.caseStack = lx.caseStack[:n-1]
				return
			}
		}
	default:
		if lx.atCmdStart {
			tok.Kind = kw
		}
	}
}

// noteWord updates automaton state after a word-like token.
func (lx *Lexer) noteWord(tok token.Token) {
	// 'in' is only reserved immediately after the for-loop variable.
	lx.afterForVar = false
	switch tok.Kind {
	case token.KwIf, token.KwThen, token.KwElse, token.KwElif, token.KwWhile,
		token.KwUntil, token.KwDo, token.KwFunction:
		lx.atCmdStart = true
	case token.KwFor:
		lx.afterFor = true
		lx.atCmdStart = false
	case token.KwCase:
		lx.caseStack = append(lx.caseStack, caseExpectWord)
		lx.atCmdStart = false
	case token.KwIn:
		lx.afterForVar = false
		lx.atCmdStart = false
	case token.AssignWord:
		// FOO=1 cmd: assignments keep the command position open.
	case token.Word:
		if lx.afterFor {
			lx.afterFor = false
			lx.afterForVar = true
		} else if n := len(lx.caseStack); n > 0 && lx.caseStack[n-1] == caseExpectWord {
			lx.caseStack[n-1] = caseExpectIn
		}
		lx.atCmdStart = false
	default:
		lx.atCmdStart = false
	}
}

// flushUnterminatedHeredocs reports heredocs whose body never appeared.
func (lx *Lexer) flushUnterminatedHeredocs() {
	for _, p := range lx.pending {
		lx.errLex(diag.LexUnterminatedHeredoc, p.opSpan,
			"heredoc delimited by '"+p.delim+"' is never terminated")
	}
	lx.pending = nil
}
