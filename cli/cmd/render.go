package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/macro/log"
	"github.com/ardnew/macro/macro"
)

// Render renders a template against a model.
type Render struct {
	Template string `arg:"" help:"Template file, or '-' for stdin" optional:""`
	Code     string `help:"Inline template code used when no template file is given" short:"c"`
	Output   string `help:"Write output to file instead of stdout"                    short:"o" type:"path"`

	ModelFlags `embed:""`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := templateSource(ctx, r.Template, r.Code)
	if err != nil {
		return err
	}

	if src.IsZero() {
		return ErrNoTemplate
	}

	model, err := r.load(ctx)
	if err != nil {
		return WrapError(err).With(slog.String("command", "render"))
	}

	var buf bytes.Buffer

	renderer := newRenderer(ctx, macro.WithBindingName(r.Bind))
	if err := renderer.Render(ctx, &buf, src, model); err != nil {
		return WrapError(err).With(
			slog.String("command", "render"),
			slog.String("source", src.String()),
		)
	}

	if r.Output == "" {
		_, err = buf.WriteTo(stdoutFrom(ctx))
	} else {
		err = os.WriteFile(r.Output, buf.Bytes(), 0o644)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("output", r.Output))
	}

	log.DebugContext(ctx, "render complete",
		slog.String("source", src.String()),
		slog.Int("output_bytes", buf.Len()),
	)

	return nil
}
