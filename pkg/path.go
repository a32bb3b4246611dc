package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

var (
	debugBin   = regexp.MustCompile(`^__debug_bin\d+$`)
	leadingDot = regexp.MustCompile(`^\.+`)
)

// Prefix returns the base name of the executable, used for the configuration
// directory and as the environment variable prefix. Debugger binaries map to
// [Name] and leading dots are dropped.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		return prefixOf(id)
	},
)

func prefixOf(exe string) string {
	base := leadingDot.ReplaceAllString(filepath.Base(exe), "")
	base = strings.TrimSuffix(base, filepath.Ext(base))

	return debugBin.ReplaceAllString(base, Name)
}

// ConfigDir returns the per-user configuration directory.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// CacheDir returns the per-user cache directory. Profiles and materialized
// inline templates are written below it.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

// userDir joins Prefix to the directory returned by lookup, falling back to
// hidden under the home directory and then to the working directory.
func userDir(lookup func() (string, error), hidden string) string {
	dir, err := lookup()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
