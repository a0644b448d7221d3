package parser

import (
	"bashguard/internal/ast"
	"bashguard/internal/diag"
	"bashguard/internal/source"
	"bashguard/internal/token"
)

func (p *Parser) parseIf() ast.Node {
	start := p.tok.Span
	ctx := p.tok.Ctx
	p.next() // if

	node := &ast.If{Base: ast.Base{NodeCtx: ctx}}
	node.Cond = p.parseStmts([]token.Kind{token.KwThen, token.KwFi})
	p.expect(token.KwThen, diag.SynExpectThen, "'then'")
	node.Then = p.parseStmts([]token.Kind{token.KwElif, token.KwElse, token.KwFi})

	for p.tok.Kind == token.KwElif {
		p.next()
		clause := ast.ElifClause{}
		clause.Cond = p.parseStmts([]token.Kind{token.KwThen, token.KwFi})
		p.expect(token.KwThen, diag.SynExpectThen, "'then'")
		clause.Then = p.parseStmts([]token.Kind{token.KwElif, token.KwElse, token.KwFi})
		node.Elifs = append(node.Elifs, clause)
	}
	if p.tok.Kind == token.KwElse {
		p.next()
		node.Else = p.parseStmts([]token.Kind{token.KwFi})
	}

	end := p.tok.Span
	p.expect(token.KwFi, diag.SynExpectFi, "'fi'")
	node.NodeSpan = start.Cover(end)
	return node
}

func (p *Parser) parseWhileUntil() ast.Node {
	start := p.tok.Span
	ctx := p.tok.Ctx
	kind := ast.LoopWhile
	if p.tok.Kind == token.KwUntil {
		kind = ast.LoopUntil
	}
	p.next()

	node := &ast.Loop{Base: ast.Base{NodeCtx: ctx}, LoopKind: kind}
	node.Cond = p.parseStmts([]token.Kind{token.KwDo, token.KwDone})
	p.expect(token.KwDo, diag.SynExpectDo, "'do'")
	node.Body = p.parseStmts([]token.Kind{token.KwDone})

	end := p.tok.Span
	p.expect(token.KwDone, diag.SynExpectDone, "'done'")
	node.NodeSpan = start.Cover(end)
	return node
}

func (p *Parser) parseFor() ast.Node {
	start := p.tok.Span
	ctx := p.tok.Ctx
	p.next() // for

	node := &ast.Loop{Base: ast.Base{NodeCtx: ctx}, LoopKind: ast.LoopFor}
	if p.tok.Kind == token.Word {
		node.Var = p.tok.Text
		node.VarSpan = p.tok.Span
		p.next()
	} else {
		p.errSyn(diag.SynExpectWord, p.tok.Span, "expected loop variable name")
	}

	if p.tok.Kind == token.KwIn {
		p.next()
		for p.tok.IsWordLike() {
			node.Items = append(node.Items, p.buildWord(p.tok))
			p.next()
		}
	}

	p.skipSeparators()
	p.expect(token.KwDo, diag.SynExpectDo, "'do'")
	node.Body = p.parseStmts([]token.Kind{token.KwDone})

	end := p.tok.Span
	p.expect(token.KwDone, diag.SynExpectDone, "'done'")
	node.NodeSpan = start.Cover(end)
	return node
}

func (p *Parser) parseCase() ast.Node {
	start := p.tok.Span
	ctx := p.tok.Ctx
	p.next() // case

	node := &ast.Case{Base: ast.Base{NodeCtx: ctx}}
	if p.tok.IsWordLike() {
		node.Word = p.buildWord(p.tok)
		p.next()
	} else {
		p.errSyn(diag.SynExpectWord, p.tok.Span, "expected word after 'case'")
	}

	p.skipNewlines()
	p.expect(token.KwIn, diag.SynExpectIn, "'in'")
	p.skipNewlines()

	for p.tok.Kind != token.KwEsac && p.tok.Kind != token.EOF {
		node.Branches = append(node.Branches, p.parseCaseBranch())
		p.skipNewlines()
	}

	end := p.tok.Span
	p.expect(token.KwEsac, diag.SynExpectEsac, "'esac'")
	node.NodeSpan = start.Cover(end)
	return node
}

func (p *Parser) parseCaseBranch() *ast.CaseBranch {
	start := p.tok.Span
	ctx := p.tok.Ctx
	branch := &ast.CaseBranch{Base: ast.Base{NodeCtx: ctx}}

	if p.tok.Kind == token.LParen {
		p.next()
	}
	for {
		if !p.tok.IsWordLike() {
			p.errSyn(diag.SynExpectPattern, p.tok.Span,
				"expected case pattern, found "+p.tok.Kind.String())
			break
		}
		branch.Patterns = append(branch.Patterns, p.buildWord(p.tok))
		p.next()
		if p.tok.Kind != token.Pipe {
			break
		}
		p.next()
	}
	p.expect(token.RParen, diag.SynExpectRParen, "')' after case pattern")

	branch.Body = p.parseStmts([]token.Kind{token.DSemi, token.KwEsac})
	end := p.tok.Span
	if p.tok.Kind == token.DSemi {
		p.next()
	}
	branch.NodeSpan = start.Cover(end)
	return branch
}

// parseFunctionKeyword parses `function name { ... }` (parentheses optional).
func (p *Parser) parseFunctionKeyword() ast.Node {
	start := p.tok.Span
	ctx := p.tok.Ctx
	p.next() // function

	name := ""
	nameSpan := p.tok.Span
	if p.tok.Kind == token.Word {
		name = p.tok.Text
		p.next()
	} else {
		p.errSyn(diag.SynExpectWord, p.tok.Span, "expected function name")
	}
	if p.tok.Kind == token.LParen {
		p.next()
		p.expect(token.RParen, diag.SynExpectRParen, "')'")
	}
	return p.finishFunction(start, ctx, name, nameSpan)
}

// parseFunctionDef parses the POSIX `name() body` form; the name word is
// already consumed.
func (p *Parser) parseFunctionDef(name token.Token) ast.Node {
	p.next() // (
	p.expect(token.RParen, diag.SynExpectRParen, "')'")
	return p.finishFunction(name.Span, name.Ctx, name.Text, name.Span)
}

func (p *Parser) finishFunction(start source.Span, ctx token.CtxStack, name string, nameSpan source.Span) ast.Node {
	p.skipNewlines()
	var body ast.Node
	if p.atCommandStart() {
		body = p.parseCommand()
	} else {
		p.errSyn(diag.SynExpectFnBody, p.tok.Span, "expected function body")
		body = &ast.BraceGroup{Base: ast.Base{NodeSpan: p.tok.Span, NodeCtx: ctx}}
	}
	return &ast.Function{
		Base:     ast.Base{NodeSpan: start.Cover(body.Span()), NodeCtx: ctx},
		Name:     name,
		NameSpan: nameSpan,
		Body:     body,
	}
}

func (p *Parser) parseSubshell() ast.Node {
	start := p.tok.Span
	ctx := p.tok.Ctx
	p.next() // (

	node := &ast.Subshell{Base: ast.Base{NodeCtx: ctx}}
	node.Body = p.parseStmts([]token.Kind{token.RParen})
	end := p.tok.Span
	p.expect(token.RParen, diag.SynExpectRParen, "')'")
	node.Redirects = p.parseTrailingRedirects()
	node.NodeSpan = start.Cover(end)
	return node
}

func (p *Parser) parseBraceGroup() ast.Node {
	start := p.tok.Span
	ctx := p.tok.Ctx
	p.next() // {

	node := &ast.BraceGroup{Base: ast.Base{NodeCtx: ctx}}
	node.Body = p.parseStmts([]token.Kind{token.RBrace})
	end := p.tok.Span
	p.expect(token.RBrace, diag.SynExpectRBrace, "'}'")
	node.Redirects = p.parseTrailingRedirects()
	node.NodeSpan = start.Cover(end)
	return node
}

// parseTestClause parses [[ ... ]]. The operands keep their word structure;
// operators like -f, ==, && surface as literal words.
func (p *Parser) parseTestClause() ast.Node {
	start := p.tok.Span
	ctx := p.tok.Ctx
	p.next() // [[

	node := &ast.TestClause{Base: ast.Base{NodeCtx: ctx}}
	for p.tok.Kind != token.DRBracket && p.tok.Kind != token.EOF &&
		p.tok.Kind != token.Newline {
		if p.tok.IsWordLike() {
			node.Words = append(node.Words, p.buildWord(p.tok))
		} else {
			// Operators inside the test expression become literal words.
			node.Words = append(node.Words, &ast.Word{
				Base: ast.Base{NodeSpan: p.tok.Span, NodeCtx: p.tok.Ctx},
				Text: p.tok.Text,
			})
		}
		p.next()
	}
	end := p.tok.Span
	p.expect(token.DRBracket, diag.SynExpectDRBracket, "']]'")
	node.NodeSpan = start.Cover(end)
	return node
}
