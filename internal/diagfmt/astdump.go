package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"bashguard/internal/ast"
	"bashguard/internal/source"
)

const astExcerptLimit = 40

// AST prints an indented tree dump with each node's span, context stack and
// a source excerpt. Depth follows span nesting, which pre-order traversal
// guarantees for this grammar.
func AST(w io.Writer, root ast.Node, fs *source.FileSet) {
	type frame struct {
		end uint32
	}
	var stack []frame
	ast.Walk(root, func(n ast.Node) bool {
		sp := n.Span()
		for len(stack) > 0 && sp.Start >= stack[len(stack)-1].end {
			stack = stack[:len(stack)-1]
		}
		indent := strings.Repeat("  ", len(stack))
		fmt.Fprintf(w, "%s%s [%d:%d) ctx=%s %s\n",
			indent, n.Kind(), sp.Start, sp.End, n.Ctx(), excerpt(fs, sp))
		stack = append(stack, frame{end: sp.End})
		return true
	})
}

func excerpt(fs *source.FileSet, sp source.Span) string {
	text := fs.Text(sp)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i] + "..."
	}
	if len(text) > astExcerptLimit {
		text = text[:astExcerptLimit] + "..."
	}
	if text == "" {
		return ""
	}
	return fmt.Sprintf("%q", text)
}
