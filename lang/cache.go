package lang

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/macro/log"
)

// globalCache stores scanned programs keyed by source hash.
// Callers receive copies, so a cached entry never changes after its scan.
var globalCache sync.Map

// state tracks the single scan of one distinct source.
type state struct {
	once sync.Once
	prog *Program
	err  error
}

// options holds scan configuration for the cached entry points.
type options struct {
	logger log.Logger
}

// Option configures [ParseReader] and [ScanString].
type Option func(*options)

// WithLogger sets the logger used for cache tracing.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func makeOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// SourceKey returns the cache key of a template source.
func SourceKey(source []byte) string {
	return strconv.FormatUint(xxh3.Hash(source), 36)
}

// ParseReader reads a template from r and returns its program.
// Identical sources are scanned only once per process; each call returns its
// own copy of the cached program.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	o := makeOptions(opts...)

	o.logger.TraceContext(
		ctx,
		"read template",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return scanCached(ctx, SourceKey(data), string(data), o)
}

// ScanString is the cached variant of [Scan].
func ScanString(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Program, error) {
	return scanCached(ctx, SourceKey([]byte(source)), source, makeOptions(opts...))
}

func scanCached(
	ctx context.Context,
	key, source string,
	o options,
) (*Program, error) {
	value, cacheHit := globalCache.LoadOrStore(key, new(state))

	entry, ok := value.(*state)
	if !ok {
		return nil, ErrCacheEntry.
			With(slog.String("key", key))
	}

	o.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_key", key),
		slog.Bool("cache_hit", cacheHit),
	)

	entry.once.Do(func() {
		entry.prog, entry.err = Scan(source)
		if entry.err != nil {
			o.logger.DebugContext(
				ctx,
				"scan failed",
				slog.String("source_key", key),
				slog.Any("error", entry.err),
			)

			return
		}

		o.logger.TraceContext(
			ctx,
			"scan complete",
			slog.String("source_key", key),
			slog.Int("instruction_count", entry.prog.Len()),
		)
	})

	if entry.err != nil {
		return nil, entry.err
	}

	return &Program{Instructions: slices.Clone(entry.prog.Instructions)}, nil
}

// ClearCache removes all cached programs.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
