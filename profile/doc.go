// Package profile provides optional runtime profiling for moco.
//
// Profiling is built on [github.com/pkg/profile] and compiled in only with
// the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Profiler.Start] does nothing.
//
// # Modes
//
//   - allocs:    memory allocations since program start
//   - block:     blocking on synchronization primitives
//   - clock:     wall-clock time
//   - cpu:       CPU time
//   - goroutine: goroutine stacks
//   - heap:      live heap allocations
//   - mem:       sampled memory allocations
//   - mutex:     mutex contention
//   - thread:    thread creation
//   - trace:     execution trace
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: dir, Quiet: true}
//	defer p.Start().Stop()
//
// The command line exposes the same settings:
//
//	moco --pprof-mode=cpu --pprof-dir=/tmp/profiles run
//
// Profiles are written as <mode>.pprof in the output directory, which
// defaults to the pprof subdirectory of the user cache directory. Analyze
// them with go tool pprof:
//
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// Building with the tag also imports [net/http/pprof], registering its
// handlers on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
