package cmd

import (
	"context"
	"io"
	"os"
	"slices"

	"github.com/alecthomas/kong"

	"github.com/ardnew/macro/log"
	"github.com/ardnew/macro/macro"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	rendererKey struct{}
	stdinKey    struct{}
)

// WithRendererOptions returns a new context.Context carrying renderer options
// shared by all commands, such as the root and temporary directories.
func WithRendererOptions(ctx context.Context, opts ...macro.Option) context.Context {
	return context.WithValue(ctx, rendererKey{}, opts)
}

// WithStdin returns a new context.Context whose template input for "-" is r.
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

// newRenderer builds a renderer from the options stored in ctx followed by
// extra. It logs through the default logger.
func newRenderer(ctx context.Context, extra ...macro.Option) *macro.Renderer {
	opts, _ := ctx.Value(rendererKey{}).([]macro.Option)

	return macro.New(slices.Concat(
		[]macro.Option{macro.WithLogger(log.Default())},
		opts,
		extra,
	)...)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok {
		return r
	}

	return os.Stdin
}

func stdoutFrom(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stdinSource is the template argument that reads from stdin.
const stdinSource = "-"

// templateSource returns the source named by a template argument, falling
// back to inline code when the argument is empty.
func templateSource(ctx context.Context, template, code string) (macro.Source, error) {
	switch template {
	case "":
		return macro.Source{Code: code}, nil

	case stdinSource:
		data, err := io.ReadAll(stdinFrom(ctx))
		if err != nil {
			return macro.Source{}, ErrReadInput.Wrap(err)
		}

		return macro.Source{Code: string(data)}, nil

	default:
		return macro.Source{Path: template}, nil
	}
}
