package ast

// Visitor is called for every node in pre-order. Returning false skips the
// node's children.
type Visitor func(Node) bool

// Walk traverses the tree rooted at n in source order, descending into
// command substitution bodies and heredoc parts.
func Walk(n Node, v Visitor) {
	if n == nil || !v(n) {
		return
	}
	switch x := n.(type) {
	case *Script:
		walkList(x.Stmts, v)
	case *Command:
		for _, a := range x.Assigns {
			Walk(a, v)
		}
		if x.Name != nil {
			Walk(x.Name, v)
		}
		for _, w := range x.Args {
			Walk(w, v)
		}
		for _, r := range x.Redirects {
			Walk(r, v)
		}
	case *Pipeline:
		walkList(x.Cmds, v)
	case *AndOr:
		Walk(x.Left, v)
		Walk(x.Right, v)
	case *Subshell:
		walkList(x.Body, v)
		for _, r := range x.Redirects {
			Walk(r, v)
		}
	case *BraceGroup:
		walkList(x.Body, v)
		for _, r := range x.Redirects {
			Walk(r, v)
		}
	case *If:
		walkList(x.Cond, v)
		walkList(x.Then, v)
		for _, e := range x.Elifs {
			walkList(e.Cond, v)
			walkList(e.Then, v)
		}
		walkList(x.Else, v)
	case *Loop:
		for _, w := range x.Items {
			Walk(w, v)
		}
		walkList(x.Cond, v)
		walkList(x.Body, v)
	case *Case:
		if x.Word != nil {
			Walk(x.Word, v)
		}
		for _, b := range x.Branches {
			Walk(b, v)
		}
	case *CaseBranch:
		for _, p := range x.Patterns {
			Walk(p, v)
		}
		walkList(x.Body, v)
	case *Function:
		Walk(x.Body, v)
	case *TestClause:
		for _, w := range x.Words {
			Walk(w, v)
		}
	case *Redirect:
		if x.Target != nil {
			Walk(x.Target, v)
		}
		if x.Heredoc != nil {
			Walk(x.Heredoc, v)
		}
	case *Heredoc:
		for _, p := range x.Parts {
			Walk(p, v)
		}
	case *Assignment:
		if x.Value != nil {
			Walk(x.Value, v)
		}
	case *Word:
		for _, p := range x.Parts {
			Walk(p, v)
		}
	case *CmdSubst:
		walkList(x.Body, v)
	case *ArithExpr:
		for _, vr := range x.Vars {
			Walk(vr, v)
		}
	}
}

func walkList(nodes []Node, v Visitor) {
	for _, n := range nodes {
		Walk(n, v)
	}
}

// Commands walks the tree and calls fn for every simple command.
func Commands(root Node, fn func(*Command)) {
	Walk(root, func(n Node) bool {
		if c, ok := n.(*Command); ok {
			fn(c)
		}
		return true
	})
}
