package profile

import "slices"

// Tag is the build tag that enables profiling. It also names the
// subdirectory profiles are written to.
const Tag = "pprof"

// Profiler describes one profiling session.
type Profiler struct {
	Mode  string // one of [Modes]; empty disables profiling
	Dir   string // output directory; empty uses the working directory
	Quiet bool
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Supported reports whether mode is available in this build.
func Supported(mode string) bool {
	return slices.Contains(Modes(), mode)
}

// Start begins profiling. It returns a no-op Stopper when profiling is
// disabled, either by an empty or unsupported mode or by building without
// the pprof tag. Both Start and Stop are always safe to call.
func (p Profiler) Start() Stopper {
	if !Supported(p.Mode) {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
