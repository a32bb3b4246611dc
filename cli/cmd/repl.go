package cmd

import (
	"context"
	"path/filepath"

	"github.com/ardnew/macro/cli/cmd/repl"
	"github.com/ardnew/macro/log"
	"github.com/ardnew/macro/macro"
)

// Repl starts an interactive session evaluating code against a model.
type Repl struct {
	ModelFlags `embed:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	model, err := r.load(ctx)
	if err != nil {
		return err
	}

	var history string

	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok {
			history = filepath.Join(dir, repl.BaseHistory)
		}
	}

	return repl.Run(ctx, repl.Options{
		Renderer:    newRenderer(ctx, macro.WithBindingName(r.Bind)),
		Model:       model,
		BindingName: r.Bind,
		HistoryPath: history,
		Logger:      log.Default(),
	})
}
