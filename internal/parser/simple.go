package parser

import (
	"bashguard/internal/ast"
	"bashguard/internal/diag"
	"bashguard/internal/source"
	"bashguard/internal/token"
)

// parseSimpleCommand parses leading assignments, the command name, its
// arguments, and redirections, which may appear between any of them.
func (p *Parser) parseSimpleCommand() ast.Node {
	start := p.tok.Span
	ctx := p.tok.Ctx
	cmd := &ast.Command{Base: ast.Base{NodeCtx: ctx}}
	end := start

	for {
		switch {
		case p.tok.Kind == token.AssignWord && cmd.Name == nil:
			end = p.tok.Span
			cmd.Assigns = append(cmd.Assigns, p.buildAssignment(p.tok))
			p.next()

		case p.tok.IsWordLike():
			if cmd.Name == nil && p.tok.Kind == token.Word {
				nameTok := p.tok
				p.next()
				if p.tok.Kind == token.LParen && len(cmd.Assigns) == 0 &&
					len(cmd.Redirects) == 0 {
					return p.parseFunctionDef(nameTok)
				}
				cmd.Name = p.buildWord(nameTok)
				end = nameTok.Span
				continue
			}
			end = p.tok.Span
			w := p.buildWord(p.tok)
			if cmd.Name == nil {
				cmd.Name = w
			} else {
				cmd.Args = append(cmd.Args, w)
			}
			p.next()

		case p.atRedirect():
			r := p.parseRedirect()
			cmd.Redirects = append(cmd.Redirects, r)
			end = end.Cover(r.Span())

		default:
			cmd.NodeSpan = start.Cover(end)
			return cmd
		}
	}
}

func (p *Parser) atRedirect() bool {
	return p.tok.Kind == token.IONumber || p.tok.Kind.IsRedirect()
}

func (p *Parser) parseRedirect() *ast.Redirect {
	start := p.tok.Span
	ctx := p.tok.Ctx
	r := &ast.Redirect{Base: ast.Base{NodeCtx: ctx}}
	end := start

	if p.tok.Kind == token.IONumber {
		r.IONum = p.tok.Text
		p.next()
	}
	r.Op = p.tok.Kind
	p.next()

	if p.tok.IsWordLike() {
		end = p.tok.Span
		r.Target = p.buildWord(p.tok)
		p.next()
	} else {
		p.errSyn(diag.SynExpectRedirTarget, p.tok.Span,
			"expected redirection target, found "+p.tok.Kind.String())
	}
	r.NodeSpan = start.Cover(end)

	if r.Op == token.DLess || r.Op == token.DLessDash {
		p.pendingHeredocs = append(p.pendingHeredocs, r)
	}
	return r
}

func (p *Parser) parseTrailingRedirects() []*ast.Redirect {
	var out []*ast.Redirect
	for p.atRedirect() {
		out = append(out, p.parseRedirect())
	}
	return out
}

func (p *Parser) textAt(sp source.Span) string {
	return string(p.file.Content[sp.Start:sp.End])
}

func (p *Parser) buildWord(tok token.Token) *ast.Word {
	return &ast.Word{
		Base:  ast.Base{NodeSpan: tok.Span, NodeCtx: tok.Ctx},
		Text:  tok.Text,
		Parts: p.buildParts(tok.Parts),
	}
}

// buildParts lowers lexical parts into word-part nodes. Command substitution
// bodies are parsed recursively here; their statements carry the enclosing
// context extended with a command-subst frame.
func (p *Parser) buildParts(parts []token.Part) []ast.WordPart {
	if len(parts) == 0 {
		return nil
	}
	out := make([]ast.WordPart, 0, len(parts))
	for _, pt := range parts {
		base := ast.Base{NodeSpan: pt.Span, NodeCtx: pt.Ctx}
		switch pt.Kind {
		case token.PartLit:
			out = append(out, &ast.Lit{Base: base, Text: p.textAt(pt.Span)})
		case token.PartSingleQuoted:
			out = append(out, &ast.SingleQuoted{Base: base, Text: stripOuterQuotes(p.textAt(pt.Span))})
		case token.PartDoubleQuoted:
			out = append(out, &ast.DoubleQuoted{Base: base})
		case token.PartVar:
			out = append(out, &ast.VarExpansion{Base: base, Name: pt.Name, Braced: pt.Braced})
		case token.PartCmdSubst:
			inner := pt.Ctx.Push(token.CtxFrame{Kind: token.CtxCommandSubst})
			out = append(out, &ast.CmdSubst{
				Base:     base,
				Backtick: pt.Backtick,
				Body:     ParseRange(p.file, pt.Inner.Start, pt.Inner.End, inner, p.opts),
			})
		case token.PartArith:
			actx := pt.Ctx.Push(token.CtxFrame{Kind: token.CtxArithmetic})
			out = append(out, &ast.ArithExpr{
				Base: base,
				Expr: p.textAt(pt.Inner),
				Vars: arithVars(p.file, pt.Inner, actx),
			})
		}
	}
	return out
}

// arithVars extracts the variable references of an arithmetic expression:
// bare identifiers and $-prefixed names both count.
func arithVars(file *source.File, inner source.Span, ctx token.CtxStack) []*ast.VarExpansion {
	var vars []*ast.VarExpansion
	text := file.Content[inner.Start:inner.End]
	i := 0
	for i < len(text) {
		ch := text[i]
		if ch == '$' {
			i++
			continue
		}
		if isNameStart(ch) {
			start := i
			for i < len(text) && isNameChar(text[i]) {
				i++
			}
			sp := source.Span{
				File:  file.ID,
				Start: inner.Start + uint32(start),
				End:   inner.Start + uint32(i),
			}
			vars = append(vars, &ast.VarExpansion{
				Base: ast.Base{NodeSpan: sp, NodeCtx: ctx},
				Name: string(text[start:i]),
			})
			continue
		}
		if ch >= '0' && ch <= '9' {
			for i < len(text) && isNameChar(text[i]) {
				i++
			}
			continue
		}
		i++
	}
	return vars
}

// buildAssignment splits an AssignWord into name, operator, and value.
func (p *Parser) buildAssignment(tok token.Token) *ast.Assignment {
	text := tok.Text
	eq := indexByteStr(text, '=')
	if eq < 0 {
		// The lexer only emits AssignWord when '=' is present.
		eq = len(text) - 1
	}

	name := text[:eq]
	appendOp := len(name) > 0 && name[len(name)-1] == '+'
	if appendOp {
		name = name[:len(name)-1]
	}
	if i := indexByteStr(name, '['); i >= 0 {
		name = name[:i]
	}

	a := &ast.Assignment{
		Base:   ast.Base{NodeSpan: tok.Span, NodeCtx: tok.Ctx},
		Name:   name,
		Append: appendOp,
		NameSpan: source.Span{
			File:  tok.Span.File,
			Start: tok.Span.Start,
			End:   tok.Span.Start + uint32(len(name)),
		},
	}

	valueStart := tok.Span.Start + uint32(eq) + 1
	if valueStart >= tok.Span.End {
		return a // bare "name="
	}
	a.Array = text[eq+1] == '('

	var vparts []token.Part
	for _, pt := range tok.Parts {
		if pt.Span.Start >= valueStart {
			vparts = append(vparts, pt)
		}
	}
	a.Value = &ast.Word{
		Base: ast.Base{
			NodeSpan: source.Span{File: tok.Span.File, Start: valueStart, End: tok.Span.End},
			NodeCtx:  tok.Ctx,
		},
		Text:  text[eq+1:],
		Parts: p.buildParts(vparts),
	}
	return a
}

func stripOuterQuotes(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

func indexByteStr(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func isNameStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isNameChar(ch byte) bool {
	return isNameStart(ch) || (ch >= '0' && ch <= '9')
}
