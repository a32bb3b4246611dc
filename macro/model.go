package macro

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
)

// DecodeModel decodes a YAML or JSON document into a host value.
// Mappings keep their document order. An empty document decodes to nil.
func DecodeModel(ctx context.Context, r io.Reader) (any, error) {
	var model any

	dec := yaml.NewDecoder(r, yaml.UseOrderedMap())

	if err := dec.DecodeContext(ctx, &model); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, ErrModel.Wrap(err)
	}

	return model, nil
}

// LoadModel decodes the YAML or JSON file at path.
func LoadModel(ctx context.Context, path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrModel.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	model, err := DecodeModel(ctx, f)
	if err != nil {
		return nil, WrapError(err).With(slog.String("path", path))
	}

	return model, nil
}
