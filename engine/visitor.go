package engine

import (
	"slices"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// identCollector gathers the root identifiers referenced by an expression,
// e.g. "model" for model.title.
type identCollector struct {
	seen map[string]struct{}
}

// Visit implements ast.Visitor.
func (c *identCollector) Visit(node *ast.Node) {
	ident, ok := (*node).(*ast.IdentifierNode)
	if !ok {
		return
	}

	c.seen[ident.Value] = struct{}{}
}

// Identifiers returns the sorted identifiers referenced by an expression, or
// nil if it does not parse.
func Identifiers(src string) []string {
	tree, err := parser.Parse(src)
	if err != nil {
		return nil
	}

	c := identCollector{seen: make(map[string]struct{})}
	ast.Walk(&tree.Node, &c)

	names := make([]string, 0, len(c.seen))
	for name := range c.seen {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
