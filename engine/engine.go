// Package engine runs scanned template programs.
//
// An [Engine] executes a [lang.Program] against an explicit [Context] that
// holds the output sink and the variable namespace of one evaluation.
// Nothing is kept in global state, so independent templates can be evaluated
// concurrently, each with its own Context.
//
// [Expr] is the bundled engine. It runs code blocks as expr-lang
// expressions with a small statement layer (echo, print, assignment) and a
// built-in environment:
//
//	platform, target      host OS and architecture
//	hostname              host name
//	cwd()                 working directory
//	env(key)              process environment lookup
//	file.exists(p)        also file.isDir, file.isRegular
//	path.abs(p)           also path.cat(a, b, ...), path.rel(from, to)
//	mung.prefix(k, p...)  PATH-like list manipulation
//	html(x)               HTML escaping; htmlspecialchars is an alias
//
// Bound variables shadow built-ins of the same name.
package engine

import (
	"context"

	"github.com/ardnew/macro/lang"
)

// Engine executes programs.
type Engine interface {
	// Evaluate runs prog, writing its output to the output sink of ec.
	// It stops at the first failing instruction or when ctx is done.
	Evaluate(ctx context.Context, prog *lang.Program, ec *Context) error
}

// Compile-time check.
var _ Engine = (*Expr)(nil)
