// Package profile provides optional runtime profiling for the macro command.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag. Without it, [Modes] is empty and [Profiler.Start]
// returns a no-op.
//
//	go build -tags pprof .
//	macro --pprof-mode cpu render page.php
//	go tool pprof -http=: ~/.cache/macro/pprof/cpu.pprof
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread and trace. The pprof build also registers the
// [net/http/pprof] handlers on the default mux.
package profile
