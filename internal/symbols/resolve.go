package symbols

import (
	"bashguard/internal/ast"
)

// Table is the immutable result of resolution: every variable expansion is
// mapped to the symbol (and origin) visible at its position. Build one with
// Resolve; a Table is never mutated afterwards and is safe for concurrent
// readers.
type Table struct {
	uses      map[*ast.VarExpansion]*Symbol
	assigned  map[string]bool // assigned anywhere in the script
	functions map[string]*ast.Function
}

// Resolve walks the script in source order and builds the origin table.
// Scope frames: the script root, one per function body, one per subshell or
// command substitution. Lookup is lexical-by-position: a use before any
// assignment does not resolve even if the name is assigned further down
// (AssignedAnywhere distinguishes the two cases).
func Resolve(script *ast.Script) *Table {
	r := &resolver{
		table: &Table{
			uses:      make(map[*ast.VarExpansion]*Symbol),
			assigned:  make(map[string]bool),
			functions: make(map[string]*ast.Function),
		},
	}
	r.scope = newScope(ScopeRoot, nil)
	r.stmts(script.Stmts)
	return r.table
}

// OriginOf returns the origin of a variable use. Unresolved uses (and nil
// nodes) report OriginUnknown.
func (t *Table) OriginOf(v *ast.VarExpansion) Origin {
	if sym, ok := t.uses[v]; ok {
		return sym.Origin
	}
	return OriginUnknown
}

// SymbolOf returns the symbol a use resolved to.
func (t *Table) SymbolOf(v *ast.VarExpansion) (*Symbol, bool) {
	sym, ok := t.uses[v]
	return sym, ok
}

// AssignedAnywhere reports whether any assignment to name exists in the
// script, regardless of position or scope.
func (t *Table) AssignedAnywhere(name string) bool {
	return t.assigned[name]
}

// Function returns the definition of a script-level function.
func (t *Table) Function(name string) (*ast.Function, bool) {
	fn, ok := t.functions[name]
	return fn, ok
}

type resolver struct {
	table  *Table
	scope  *scope
	inFunc bool
}

func (r *resolver) stmts(list []ast.Node) {
	for _, n := range list {
		r.node(n)
	}
}

func (r *resolver) node(n ast.Node) {
	switch x := n.(type) {
	case *ast.Command:
		r.command(x)
	case *ast.Pipeline:
		r.stmts(x.Cmds)
	case *ast.AndOr:
		r.node(x.Left)
		r.node(x.Right)
	case *ast.Subshell:
		r.pushed(ScopeSubshell, func() { r.stmts(x.Body) })
		r.redirects(x.Redirects)
	case *ast.BraceGroup:
		r.stmts(x.Body)
		r.redirects(x.Redirects)
	case *ast.If:
		r.stmts(x.Cond)
		r.stmts(x.Then)
		for _, e := range x.Elifs {
			r.stmts(e.Cond)
			r.stmts(e.Then)
		}
		r.stmts(x.Else)
	case *ast.Loop:
		if x.LoopKind == ast.LoopFor && x.Var != "" {
			r.declare(&Symbol{
				Name:     x.Var,
				Origin:   OriginLoopVar,
				DeclSpan: x.VarSpan,
				Scope:    r.scope.kind,
			})
		}
		for _, w := range x.Items {
			r.word(w)
		}
		r.stmts(x.Cond)
		r.stmts(x.Body)
	case *ast.Case:
		if x.Word != nil {
			r.word(x.Word)
		}
		for _, b := range x.Branches {
			for _, pat := range b.Patterns {
				r.word(pat)
			}
			// Locals declared in a branch die with it at the ;; boundary.
			r.pushed(ScopeCaseBranch, func() { r.stmts(b.Body) })
		}
	case *ast.Function:
		r.table.functions[x.Name] = x
		wasInFunc := r.inFunc
		r.inFunc = true
		// Shell scoping is dynamic: the function frame chains to the
		// enclosing one so outer variables stay visible.
		r.pushed(ScopeFunction, func() { r.node(x.Body) })
		r.inFunc = wasInFunc
	case *ast.TestClause:
		for _, w := range x.Words {
			r.word(w)
		}
	case *ast.Word:
		r.word(x)
	}
}

func (r *resolver) pushed(kind ScopeKind, fn func()) {
	r.scope = newScope(kind, r.scope)
	fn()
	r.scope = r.scope.parent
}

func (r *resolver) command(c *ast.Command) {
	for _, a := range c.Assigns {
		if a.Value != nil {
			r.word(a.Value)
		}
		r.table.assigned[a.Name] = true
		r.declare(&Symbol{
			Name:     a.Name,
			Origin:   OriginAssignment,
			DeclSpan: a.NameSpan,
			Scope:    r.scope.kind,
		})
	}
	if c.Name != nil {
		r.word(c.Name)
	}

	switch c.NameText() {
	case "export", "declare", "typeset", "local", "readonly":
		r.declarationBuiltin(c)
	case "read":
		r.readBuiltin(c)
	case "unset":
		// Deliberately ignored: unset does not retroactively change the
		// origin of earlier uses, and modeling it would make the table
		// order-dependent in ways no rule needs.
		r.args(c)
	default:
		r.args(c)
	}
	r.redirects(c.Redirects)
}

func (r *resolver) args(c *ast.Command) {
	for _, w := range c.Args {
		r.word(w)
	}
}

// declarationBuiltin handles export/declare/typeset/local/readonly: each
// non-flag argument declares (and possibly assigns) a name.
func (r *resolver) declarationBuiltin(c *ast.Command) {
	name := c.NameText()
	origin := OriginAssignment
	switch {
	case name == "export":
		origin = OriginExported
	case name == "local" || ((name == "declare" || name == "typeset") && r.inFunc):
		origin = OriginLocal
	}

	for _, w := range c.Args {
		text := w.Text
		if len(text) > 0 && text[0] == '-' {
			if name == "declare" && text == "-x" {
				origin = OriginExported
			}
			continue
		}
		varName := text
		if i := indexByte(text, '='); i >= 0 {
			varName = text[:i]
			r.word(w) // value side may read other variables
		}
		if !isName(varName) {
			r.word(w)
			continue
		}
		r.table.assigned[varName] = true
		r.declare(&Symbol{
			Name:     varName,
			Origin:   origin,
			DeclSpan: w.Span(),
			Scope:    r.scope.kind,
		})
	}
}

// readBuiltin declares every non-flag argument of read. Flags with values
// (-p prompt, -t timeout, ...) are skipped together with their value when
// attached; a conservative approximation that only misses exotic usage.
func (r *resolver) readBuiltin(c *ast.Command) {
	skipNext := false
	for _, w := range c.Args {
		text := w.Text
		if skipNext {
			skipNext = false
			continue
		}
		if len(text) > 0 && text[0] == '-' {
			switch text {
			case "-p", "-t", "-n", "-N", "-u", "-d", "-a", "-i":
				skipNext = true
			}
			continue
		}
		if !isName(text) {
			r.word(w)
			continue
		}
		r.table.assigned[text] = true
		r.declare(&Symbol{
			Name:     text,
			Origin:   OriginRead,
			DeclSpan: w.Span(),
			Scope:    r.scope.kind,
		})
	}
}

func (r *resolver) declare(sym *Symbol) {
	r.table.assigned[sym.Name] = true
	target := r.scope
	if sym.Origin != OriginLocal {
		// Plain assignments inside a case branch outlive the branch; only
		// local declarations stay branch-scoped.
		for target.kind == ScopeCaseBranch && target.parent != nil {
			target = target.parent
		}
	}
	sym.Scope = target.kind
	target.declare(sym)
}

func (r *resolver) redirects(list []*ast.Redirect) {
	for _, rd := range list {
		if rd.Target != nil {
			r.word(rd.Target)
		}
		if rd.Heredoc != nil {
			for _, p := range rd.Heredoc.Parts {
				r.part(p)
			}
		}
	}
}

func (r *resolver) word(w *ast.Word) {
	for _, p := range w.Parts {
		r.part(p)
	}
}

func (r *resolver) part(p ast.WordPart) {
	switch x := p.(type) {
	case *ast.VarExpansion:
		r.use(x)
	case *ast.CmdSubst:
		// Substitution bodies run in a child environment.
		r.pushed(ScopeSubshell, func() { r.stmts(x.Body) })
	case *ast.ArithExpr:
		for _, v := range x.Vars {
			r.use(v)
		}
	}
}

func (r *resolver) use(v *ast.VarExpansion) {
	if isParamName(v.Name) {
		r.table.uses[v] = &Symbol{Name: v.Name, Origin: OriginParam, Scope: r.scope.kind}
		return
	}
	if sym, ok := r.scope.lookup(v.Name); ok {
		r.table.uses[v] = sym
	}
}

// isParamName reports positional and special parameters.
func isParamName(name string) bool {
	if len(name) != 1 {
		return false
	}
	ch := name[0]
	if ch >= '0' && ch <= '9' {
		return true
	}
	switch ch {
	case '@', '*', '#', '?', '$', '!', '-':
		return true
	}
	return false
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		ok := ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
			(i > 0 && ch >= '0' && ch <= '9')
		if !ok {
			return false
		}
	}
	return true
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
