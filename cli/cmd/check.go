package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/macro/log"
	"github.com/ardnew/macro/macro"
)

// Check validates templates without evaluating them.
type Check struct {
	Templates []string `arg:"" help:"Template files to validate" name:"template"`
}

// Run executes the check command. Every template is checked; the error
// reports how many failed and joins their causes.
func (c *Check) Run(ctx context.Context) error {
	renderer := newRenderer(ctx)
	out := stdoutFrom(ctx)

	var errs []error

	for _, path := range c.Templates {
		err := renderer.Validate(ctx, macro.Source{Path: path})
		if err != nil {
			errs = append(errs, err)

			log.ErrorContext(ctx, "invalid template",
				slog.String("path", path),
				slog.Any("error", err),
			)

			fmt.Fprintf(out, "FAIL %s: %v\n", path, err)

			continue
		}

		fmt.Fprintf(out, "ok   %s\n", path)
	}

	if len(errs) > 0 {
		return ErrCheck.Wrap(errors.Join(errs...)).With(
			slog.Int("failed", len(errs)),
			slog.Int("total", len(c.Templates)),
		)
	}

	return nil
}
