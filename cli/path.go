package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/macro/pkg"
)

const (
	// baseConfig is the base name of the YAML configuration file.
	baseConfig = "config.yaml"

	// baseConfigJSON is the base name of the JSON configuration file.
	baseConfigJSON = "config.json"

	// baseInline is the cache subdirectory inline templates are written to.
	baseInline = "inline"
)

// DefaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// configPath returns the path formed by joining the configuration directory
// with the given path elements.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// cachePath returns the path formed by joining the cache directory with the
// given path elements.
func cachePath(elem ...string) string {
	return filepath.Join(append([]string{pkg.CacheDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
