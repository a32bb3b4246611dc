package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/macro/lang"
)

// Scan prints the program a template scans to.
type Scan struct {
	Template string `arg:"" help:"Template file, or '-' for stdin" optional:""`
	Code     string `help:"Inline template code used when no template file is given" short:"c"`
	Format   string `help:"Output format (${enum})" short:"f" default:"text" enum:"${scanFormatEnum}"`
	Indent   int    `help:"Indent width; 0 selects the compact form where one exists" short:"i" default:"2"`
}

// Run executes the scan command.
func (s *Scan) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	format, err := lang.ParseFormat(s.Format)
	if err != nil {
		return err
	}

	src, err := templateSource(ctx, s.Template, s.Code)
	if err != nil {
		return err
	}

	if src.IsZero() {
		return ErrNoTemplate
	}

	prog, err := newRenderer(ctx).Load(ctx, src)
	if err != nil {
		return WrapError(err).With(
			slog.String("command", "scan"),
			slog.String("source", src.String()),
		)
	}

	return prog.Format(ctx, stdoutFrom(ctx), format, s.Indent)
}
