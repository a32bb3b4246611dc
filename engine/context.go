package engine

import (
	"io"
	"maps"
	"slices"

	"github.com/ardnew/macro/log"
	"github.com/ardnew/macro/value"
)

// Context is the explicit state of one program evaluation: the output sink,
// the variable namespace, and the logger.
//
// A Context belongs to a single evaluation at a time and is not safe for
// concurrent use. Separate evaluations use separate contexts and never share
// variables.
type Context struct {
	out    io.Writer
	vars   map[string]any // names bound or assigned by the host and scripts
	env    map[string]any // built-ins overlaid with vars
	logger log.Logger
}

// ContextOption configures a [Context].
type ContextOption func(*Context)

// WithContextLogger sets the logger of the context.
func WithContextLogger(logger log.Logger) ContextOption {
	return func(c *Context) {
		c.logger = logger
	}
}

// WithEnviron sets the process environment visible to the env() built-in as
// a list of KEY=VALUE entries. The default is the environment of the
// current process.
func WithEnviron(list []string) ContextOption {
	return func(c *Context) {
		c.env["env"] = environ(list)
	}
}

// NewContext returns a context that writes program output to w.
func NewContext(w io.Writer, opts ...ContextOption) *Context {
	if w == nil {
		w = io.Discard
	}

	c := &Context{
		out:  w,
		vars: make(map[string]any),
		env:  maps.Clone(builtins()),
	}

	c.env["env"] = environ(nil)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Bind stores a marshalled value under name, projected to the engine's
// native representation.
func (c *Context) Bind(name string, v value.Value) {
	c.Set(name, v.Native())
}

// Set stores x under name. Bound names shadow built-ins.
func (c *Context) Set(name string, x any) {
	c.vars[name] = x
	c.env[name] = x
}

// Lookup returns the value stored under name by [Context.Bind],
// [Context.Set] or a script assignment.
func (c *Context) Lookup(name string) (any, bool) {
	x, ok := c.vars[name]

	return x, ok
}

// Names returns the sorted names of all bound variables.
func (c *Context) Names() []string {
	return slices.Sorted(maps.Keys(c.vars))
}

// Output returns the output sink.
func (c *Context) Output() io.Writer { return c.out }

// Logger returns the logger of the context.
func (c *Context) Logger() log.Logger { return c.logger }

// Env returns the evaluation environment: built-ins overlaid with bound
// variables. The returned map is shared with the context.
func (c *Context) Env() map[string]any { return c.env }
