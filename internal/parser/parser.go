package parser

import (
	"bashguard/internal/ast"
	"bashguard/internal/diag"
	"bashguard/internal/lexer"
	"bashguard/internal/source"
	"bashguard/internal/token"
)

// Options configures a Parser. Syntax errors go to Reporter; a nil Reporter
// drops them while recovery still runs.
type Options struct {
	Reporter diag.Reporter
}

// Parser is a recursive-descent parser over the context-stamped token
// stream. Errors never abort the parse: the parser reports, resynchronizes
// at a statement boundary, and keeps going so one broken line does not hide
// findings in the rest of the script.
type Parser struct {
	file *source.File
	lx   *lexer.Lexer
	opts Options
	tok  token.Token

	// heredocs opened on the current line, waiting for their body tokens.
	pendingHeredocs []*ast.Redirect
}

// New creates a parser over the whole file.
func New(file *source.File, opts Options) *Parser {
	p := &Parser{
		file: file,
		lx:   lexer.New(file, lexer.Options{Reporter: opts.Reporter}),
		opts: opts,
	}
	p.next()
	return p
}

// newRange creates a parser over a command-substitution body.
func newRange(file *source.File, start, end uint32, base token.CtxStack, opts Options) *Parser {
	p := &Parser{
		file: file,
		lx:   lexer.NewRange(file, start, end, base, lexer.Options{Reporter: opts.Reporter}),
		opts: opts,
	}
	p.next()
	return p
}

// Parse consumes the whole input and returns the root script node.
func (p *Parser) Parse() *ast.Script {
	start := p.tok.Span
	stmts := p.parseStmts(nil)
	return &ast.Script{
		Base:  ast.Base{NodeSpan: start.Cover(p.tok.Span)},
		Stmts: stmts,
	}
}

// ParseRange parses a byte range of file as a statement list with base as
// the enclosing context. Used for command-substitution bodies; spans stay
// file-absolute.
func ParseRange(file *source.File, start, end uint32, base token.CtxStack, opts Options) []ast.Node {
	return newRange(file, start, end, base, opts).parseStmts(nil)
}

func (p *Parser) errSyn(code diag.Code, sp source.Span, msg string) {
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(diag.NewError(code, sp, msg))
	}
}

// next advances to the following token. Heredoc bodies arrive interleaved
// after the newline that ends their line; they are routed to the redirects
// that opened them rather than surfacing as ordinary tokens.
func (p *Parser) next() {
	for {
		p.tok = p.lx.Next()
		if p.tok.Kind != token.HeredocBody {
			return
		}
		p.attachHeredoc(p.tok)
	}
}

func (p *Parser) attachHeredoc(tok token.Token) {
	if len(p.pendingHeredocs) == 0 {
		// Body without an opener happens only after severe recovery.
		p.errSyn(diag.SynUnexpectedToken, tok.Span, "heredoc body without a redirection")
		return
	}
	r := p.pendingHeredocs[0]
	p.pendingHeredocs = p.pendingHeredocs[1:]

	frame := tok.Ctx.Top()
	r.Heredoc = &ast.Heredoc{
		Base:      ast.Base{NodeSpan: tok.Span, NodeCtx: tok.Ctx},
		Delim:     frame.Delim,
		Quoted:    frame.Quoted,
		StripTabs: r.Op == token.DLessDash,
		Text:      tok.Text,
		Parts:     p.buildParts(tok.Parts),
	}
	r.NodeSpan = r.NodeSpan.Cover(tok.Span)
}

// at reports whether the current token kind is in kinds.
func (p *Parser) at(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.tok.Kind == k {
			return true
		}
	}
	return false
}

// expect consumes a token of the given kind or reports under the given code
// and leaves the stream untouched so the caller's recovery logic can run.
func (p *Parser) expect(kind token.Kind, code diag.Code, what string) bool {
	if p.tok.Kind == kind {
		p.next()
		return true
	}
	p.errSyn(code, p.tok.Span,
		"expected "+what+", found "+p.tok.Kind.String())
	return false
}

// skipSeparators consumes newlines, semicolons, and comments.
func (p *Parser) skipSeparators() {
	for p.at(token.Newline, token.Semi, token.Comment) {
		p.next()
	}
}

func (p *Parser) skipNewlines() {
	for p.at(token.Newline, token.Comment) {
		p.next()
	}
}

// parseStmts parses statements until EOF or one of the stop kinds. The stop
// token is left in the stream.
func (p *Parser) parseStmts(stop []token.Kind) []ast.Node {
	var stmts []ast.Node
	for {
		p.skipSeparators()
		if p.tok.Kind == token.EOF || p.at(stop...) {
			return stmts
		}
		if !p.atCommandStart() {
			// Resync: drop the stray token and continue at the next
			// statement boundary.
			p.errSyn(diag.SynUnexpectedToken, p.tok.Span,
				"unexpected "+p.tok.Kind.String())
			p.resync(stop)
			continue
		}
		stmts = append(stmts, p.parseAndOr())
		// A trailing '&' backgrounds the list; the tree keeps the command.
		if p.tok.Kind == token.Amp {
			p.next()
		}
	}
}

func (p *Parser) atCommandStart() bool {
	switch p.tok.Kind {
	case token.Word, token.AssignWord, token.IONumber, token.KwIf, token.KwWhile,
		token.KwUntil, token.KwFor, token.KwCase, token.KwFunction,
		token.LParen, token.LBrace, token.DLBracket, token.Bang,
		token.Less, token.Great, token.DGreat, token.DLess, token.DLessDash,
		token.TLess, token.LessAnd, token.GreatAnd, token.AndGreat:
		return true
	default:
		return false
	}
}

// resync advances to the next statement boundary.
func (p *Parser) resync(stop []token.Kind) {
	for p.tok.Kind != token.EOF {
		if p.at(token.Newline, token.Semi) {
			return
		}
		if p.at(stop...) {
			return
		}
		p.next()
	}
}

// parseAndOr parses a pipeline optionally chained with && and ||,
// associating left.
func (p *Parser) parseAndOr() ast.Node {
	left := p.parsePipeline()
	for p.at(token.AndIf, token.OrIf) {
		op := ast.AndOp
		if p.tok.Kind == token.OrIf {
			op = ast.OrOp
		}
		ctx := p.tok.Ctx
		p.next()
		p.skipNewlines()
		right := p.parsePipeline()
		left = &ast.AndOr{
			Base:  ast.Base{NodeSpan: left.Span().Cover(right.Span()), NodeCtx: ctx},
			Op:    op,
			Left:  left,
			Right: right,
		}
	}
	return left
}

func (p *Parser) parsePipeline() ast.Node {
	negated := false
	start := p.tok.Span
	ctx := p.tok.Ctx
	if p.tok.Kind == token.Bang {
		negated = true
		p.next()
	}

	first := p.parseCommand()
	if p.tok.Kind != token.Pipe && !negated {
		return first
	}

	cmds := []ast.Node{first}
	for p.tok.Kind == token.Pipe {
		p.next()
		p.skipNewlines()
		cmds = append(cmds, p.parseCommand())
	}
	return &ast.Pipeline{
		Base:    ast.Base{NodeSpan: start.Cover(cmds[len(cmds)-1].Span()), NodeCtx: ctx},
		Negated: negated,
		Cmds:    cmds,
	}
}

// parseCommand dispatches on the leading token: compound commands get their
// own productions, everything else is a simple command.
func (p *Parser) parseCommand() ast.Node {
	switch p.tok.Kind {
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile, token.KwUntil:
		return p.parseWhileUntil()
	case token.KwFor:
		return p.parseFor()
	case token.KwCase:
		return p.parseCase()
	case token.KwFunction:
		return p.parseFunctionKeyword()
	case token.LParen:
		return p.parseSubshell()
	case token.LBrace:
		return p.parseBraceGroup()
	case token.DLBracket:
		return p.parseTestClause()
	default:
		return p.parseSimpleCommand()
	}
}
