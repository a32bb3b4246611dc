package macro

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ardnew/macro/engine"
	"github.com/ardnew/macro/lang"
	"github.com/ardnew/macro/log"
	"github.com/ardnew/macro/value"
)

// DefaultBindingName is the variable name the model is bound to.
const DefaultBindingName = "model"

// DefaultTempDir returns the directory inline code is materialized into
// when [WithTempDir] is not given.
func DefaultTempDir() string {
	return filepath.Join(os.TempDir(), "macro")
}

type binding struct {
	name string
	host any
}

// Renderer renders templates against host data.
//
// A Renderer is immutable after [New] and safe for concurrent use; each
// render gets its own engine context.
type Renderer struct {
	engine      engine.Engine
	root        string
	tempDir     string
	bindingName string
	bindings    []binding
	environ     []string
	logger      log.Logger
}

// Option configures a [Renderer].
type Option func(*Renderer)

// WithEngine sets the engine that runs scanned programs.
// The default is [engine.Expr].
func WithEngine(e engine.Engine) Option {
	return func(r *Renderer) {
		if e != nil {
			r.engine = e
		}
	}
}

// WithRoot sets the directory that relative and ~/ paths resolve against.
// The default is the working directory.
func WithRoot(dir string) Option {
	return func(r *Renderer) {
		r.root = dir
	}
}

// WithTempDir sets the directory inline code is written to.
func WithTempDir(dir string) Option {
	return func(r *Renderer) {
		r.tempDir = dir
	}
}

// WithBindingName sets the variable name of the model.
func WithBindingName(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.bindingName = name
		}
	}
}

// WithBinding binds an additional host value under name in every render.
// The model binding takes precedence over a binding of the same name.
func WithBinding(name string, host any) Option {
	return func(r *Renderer) {
		r.bindings = append(r.bindings, binding{name: name, host: host})
	}
}

// WithEnviron sets the environment visible to templates.
func WithEnviron(environ []string) Option {
	return func(r *Renderer) {
		r.environ = environ
	}
}

// WithLogger sets the logger of the renderer and its default engine.
func WithLogger(logger log.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// New returns a renderer configured by opts.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		root:        ".",
		tempDir:     DefaultTempDir(),
		bindingName: DefaultBindingName,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.engine == nil {
		r.engine = engine.NewExpr(engine.WithLogger(r.logger))
	}

	return r
}

// Load locates, reads and scans the template of src.
// It returns a nil program with no error when src is empty.
func (r *Renderer) Load(ctx context.Context, src Source) (*lang.Program, error) {
	path, err := r.Locate(src)
	if err != nil || path == "" {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrRead.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	prog, err := lang.ParseReader(ctx, f, lang.WithLogger(r.logger))
	if err != nil {
		return nil, ErrScan.Wrap(err).With(slog.String("path", path))
	}

	return prog, nil
}

// Execute renders src against model and returns the output.
// An empty source renders to "" with no error.
func (r *Renderer) Execute(
	ctx context.Context,
	src Source,
	model any,
) (string, error) {
	start := time.Now()

	prog, err := r.Load(ctx, src)
	if err != nil || prog == nil {
		return "", err
	}

	var buf bytes.Buffer

	ec := r.context(&buf, model)

	if err := r.engine.Evaluate(ctx, prog, ec); err != nil {
		return "", ErrExecute.Wrap(err).With(slog.String("source", src.String()))
	}

	r.logger.DebugContext(
		ctx,
		"rendered template",
		slog.String("source", src.String()),
		slog.Int("instruction_count", prog.Len()),
		slog.Int("output_bytes", buf.Len()),
		slog.Duration("elapsed", time.Since(start)),
	)

	return buf.String(), nil
}

// Render renders src against model and writes the output to w.
// Nothing is written when rendering fails.
func (r *Renderer) Render(
	ctx context.Context,
	w io.Writer,
	src Source,
	model any,
) error {
	out, err := r.Execute(ctx, src, model)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, out); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

// Validate reports whether src can be located, read and scanned.
// Unlike [Renderer.Execute] it rejects an empty source.
func (r *Renderer) Validate(ctx context.Context, src Source) error {
	if src.IsZero() {
		return ErrNoSource
	}

	_, err := r.Load(ctx, src)

	return err
}

func (r *Renderer) context(w io.Writer, model any) *engine.Context {
	opts := []engine.ContextOption{engine.WithContextLogger(r.logger)}
	if r.environ != nil {
		opts = append(opts, engine.WithEnviron(r.environ))
	}

	ec := engine.NewContext(w, opts...)

	for _, b := range r.bindings {
		ec.Bind(b.name, value.Marshal(b.host))
	}

	ec.Bind(r.bindingName, value.Marshal(model))

	return ec
}
