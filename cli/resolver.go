package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] that reads a flat YAML mapping of
// flag names to values.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Keys may spell flag names with hyphens or underscores, so both of these
// set --log-level:
//
//	log-level: debug
//	log_level: debug
//
// Nested mappings are flattened with hyphens:
//
//	log:
//	  level: debug
//
// Command-line flags override config file values. An empty file is an empty
// configuration; a file that is not a mapping is an error.
func resolve(r io.Reader) (kong.Resolver, error) {
	var ms yaml.MapSlice

	if err := yaml.NewDecoder(r, yaml.UseOrderedMap()).Decode(&ms); err != nil {
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		return nil, err
	}

	cfg := config{}
	cfg.flatten("", ms)

	return cfg, nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flatten adds every leaf of ms to c under its hyphenated key path.
func (c config) flatten(prefix string, ms yaml.MapSlice) {
	for _, item := range ms {
		key := strings.ReplaceAll(fmt.Sprint(item.Key), "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if child, ok := item.Value.(yaml.MapSlice); ok {
			c.flatten(key, child)

			continue
		}

		c[key] = configValue(item.Value)
	}
}

// configValue converts a decoded YAML value to the form kong expects.
// Kong requires numbers as strings for parsing.
func configValue(v any) any {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = configValue(e)
		}

		return out
	default:
		return v
	}
}
