package engine

import (
	"errors"
	"html"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"

	"github.com/ardnew/macro/value"
)

// builtins is the process-wide set of names every script can see. Each
// [Context] receives its own clone, so a script assigning over a built-in
// changes only its own evaluation.
var builtins = sync.OnceValue(func() map[string]any {
	goHost := host{OS: runtime.GOOS, Arch: runtime.GOARCH}
	name, _ := os.Hostname()

	return map[string]any{
		"platform": goHost,
		"target":   goHost.gnu(),
		"hostname": name,
		"cwd":      workingDir,

		"file": map[string]any{
			"exists":    exists,
			"isDir":     statIs(fs.FileInfo.IsDir),
			"isRegular": statIs(func(fi fs.FileInfo) bool { return fi.Mode().IsRegular() }),
		},

		"path": map[string]any{
			"abs": absPath,
			"cat": filepath.Join,
			"rel": relPath,
		},

		"mung": map[string]any{
			"prefix": func(key string, prefix ...string) string {
				return prefixList(key, nil, prefix)
			},
			"prefixif": func(key string, keep func(string) bool, prefix ...string) string {
				return prefixList(key, keep, prefix)
			},
		},

		"html":             escapeHTML,
		"htmlspecialchars": escapeHTML,
	}
})

// BuiltinNames returns the sorted top-level built-in names, including the
// env() function bound per context.
func BuiltinNames() []string {
	return slices.Sorted(func(yield func(string) bool) {
		for name := range maps.Keys(builtins()) {
			if !yield(name) {
				return
			}
		}

		yield("env")
	})
}

// BuiltinMembers returns the sorted member names of the built-in namespace
// at a dot-separated path, e.g. "file" or "path". It returns nil if the path
// does not name a namespace.
func BuiltinMembers(path string) []string {
	if path == "" {
		return BuiltinNames()
	}

	ns := builtins()

	for {
		head, rest, nested := strings.Cut(path, ".")

		next, ok := ns[head].(map[string]any)
		if !ok {
			return nil
		}

		if !nested {
			return slices.Sorted(maps.Keys(next))
		}

		ns, path = next, rest
	}
}

// host names an operating system and instruction set architecture.
type host struct {
	OS   string
	Arch string
}

// gnu returns h with the architecture spelled the way GCC and LLVM target
// triples spell it.
func (h host) gnu() host {
	switch h.Arch {
	case "386":
		h.Arch = "i386"
	case "amd64":
		h.Arch = "x86_64"
	case "mipsle":
		h.Arch = "mipsel"
	case "arm64":
		if h.OS != "darwin" {
			h.Arch = "aarch64"
		}
	}

	return h
}

func workingDir() string {
	if dir, err := os.Getwd(); err == nil {
		return dir
	}

	return absPath(".")
}

// exists reports whether path exists. Errors other than non-existence count
// as existing.
func exists(path string) bool {
	_, err := os.Stat(path)

	return !errors.Is(err, fs.ErrNotExist)
}

func statIs(pred func(fs.FileInfo) bool) func(string) bool {
	return func(path string) bool {
		fi, err := os.Stat(path)

		return err == nil && pred(fi)
	}
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}

	return path
}

func relPath(from, to string) string {
	if rel, err := filepath.Rel(absPath(from), absPath(to)); err == nil {
		return rel
	}

	return filepath.Join(from, to)
}

// prefixList prepends prefix to the path list key, dropping duplicates and
// any element rejected by keep.
func prefixList(key string, keep func(string) bool, prefix []string) string {
	opts := []mung.Option[mung.Config]{
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	}

	if keep != nil {
		opts = append(opts, mung.WithFilter(keep))
	}

	return mung.Make(opts...).String()
}

// escapeHTML escapes the text form of any value for inclusion in markup.
func escapeHTML(x any) string {
	return html.EscapeString(value.Text(x))
}

// environ returns the env() built-in over a KEY=VALUE list. An empty list
// uses the environment of the current process.
func environ(list []string) func(string) string {
	if len(list) == 0 {
		list = os.Environ()
	}

	vars := make(map[string]string, len(list))

	for _, kv := range list {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	return func(key string) string { return vars[key] }
}
