package macro

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// InlinePrefix and InlineExt name the files that inline code is
// materialized into.
const (
	InlinePrefix = "inline-"
	InlineExt    = ".php"
)

// Source identifies a template either by file path or by inline code.
// Path wins when both are set.
type Source struct {
	Path string
	Code string
}

// IsZero reports whether neither a path nor inline code is set.
func (s Source) IsZero() bool {
	return s.Path == "" && strings.TrimSpace(s.Code) == ""
}

// String returns the path of s or a short description of its inline code.
func (s Source) String() string {
	switch {
	case s.Path != "":
		return s.Path
	case s.Code != "":
		return "inline:" + InlineName(s.Code)
	default:
		return ""
	}
}

// InlineName returns the file name that inline code materializes to.
// Surrounding whitespace does not change the name.
func InlineName(code string) string {
	sum := xxh3.HashString(strings.TrimSpace(code))

	return InlinePrefix + strconv.FormatUint(sum, 16) + InlineExt
}

// Locate returns the template file of src, writing inline code to the
// temporary directory first when needed. It returns "" with no error when
// src is empty.
func (r *Renderer) Locate(src Source) (string, error) {
	switch {
	case src.Path != "":
		return r.resolve(src.Path)
	case strings.TrimSpace(src.Code) != "":
		return r.materialize(src.Code)
	default:
		return "", nil
	}
}

// resolve expands a leading ~/ and relative paths against the root.
func (r *Renderer) resolve(path string) (string, error) {
	switch {
	case path == "~":
		path = r.root
	case strings.HasPrefix(path, "~/"):
		path = filepath.Join(r.root, path[2:])
	case !filepath.IsAbs(path):
		path = filepath.Join(r.root, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ErrResolve.Wrap(err).With(slog.String("path", path))
	}

	return abs, nil
}

// materialize writes trimmed code to its content-addressed file unless a
// file with that name already exists. The write goes through a temporary
// file and a rename, so concurrent callers never observe a partial file.
func (r *Renderer) materialize(code string) (string, error) {
	dir, err := r.resolve(r.tempDir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, InlineName(code))

	if _, err := os.Stat(path); err == nil {
		r.logger.Trace("reuse inline file", slog.String("path", path))

		return path, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", ErrMaterialize.Wrap(err).With(slog.String("path", path))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", ErrMaterialize.Wrap(err).With(slog.String("dir", dir))
	}

	tmp, err := os.CreateTemp(dir, ".inline-*")
	if err != nil {
		return "", ErrMaterialize.Wrap(err).With(slog.String("dir", dir))
	}

	defer os.Remove(tmp.Name())

	_, err = tmp.WriteString(strings.TrimSpace(code))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}

	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}

	if err != nil {
		return "", ErrMaterialize.Wrap(err).With(slog.String("path", path))
	}

	r.logger.Debug("materialized inline code", slog.String("path", path))

	return path, nil
}
