package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/macro/macro"
	"github.com/ardnew/macro/value"
)

// ModelFlags select the host data bound to a template.
type ModelFlags struct {
	Model string            `help:"Model file (YAML or JSON)"                              short:"m" type:"existingfile"`
	Set   map[string]string `help:"Set a model field; dotted keys reach nested mappings" short:"s"                    placeholder:"KEY=VALUE"`
	Bind  string            `help:"Variable name of the model"                             default:"model"`
}

// load returns the model file content with the --set fields applied.
// Values are typed by [value.Parse].
func (f ModelFlags) load(ctx context.Context) (any, error) {
	var model any

	if f.Model != "" {
		var err error

		model, err = macro.LoadModel(ctx, f.Model)
		if err != nil {
			return nil, err
		}
	}

	if len(f.Set) == 0 {
		return model, nil
	}

	if model == nil {
		model = yaml.MapSlice{}
	}

	ms, ok := model.(yaml.MapSlice)
	if !ok {
		return nil, ErrModelSet.With(slog.String("model", fmt.Sprintf("%T", model)))
	}

	for _, key := range slices.Sorted(maps.Keys(f.Set)) {
		ms = setField(ms, strings.Split(key, "."), value.Parse(f.Set[key]))
	}

	return ms, nil
}

// setField sets the value at path, replacing an existing key in place or
// appending a new one. Intermediate non-mapping values are replaced.
func setField(ms yaml.MapSlice, path []string, v any) yaml.MapSlice {
	key := path[0]

	idx := slices.IndexFunc(ms, func(item yaml.MapItem) bool {
		return fmt.Sprint(item.Key) == key
	})

	if len(path) > 1 {
		var child yaml.MapSlice
		if idx >= 0 {
			child, _ = ms[idx].Value.(yaml.MapSlice)
		}

		v = setField(child, path[1:], v)
	}

	if idx >= 0 {
		ms[idx].Value = v

		return ms
	}

	return append(ms, yaml.MapItem{Key: key, Value: v})
}
