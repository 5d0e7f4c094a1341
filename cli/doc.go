// Package cli contains the command line interface for moco.
//
// # Usage
//
//	moco [flags] <command> [args]
//
// Without a command, run is executed: every script of the project is expanded
// and injected into its pack documents.
//
// # Configuration
//
// The project configuration is the file named by --config, or the first of
// moco_config.json, .yaml, .yml and .toml found in the working directory. A
// file of the same name in the user configuration directory supplies
// defaults for every project.
//
// Settings also serve as flag defaults. Keys are flattened with dashes and
// looked up by a flag's config tag, then by "<command>-<flag>", then by the
// flag name:
//
//	log.level         --log-level
//	expand.maxPasses  --max-passes (expand, repl)
//	watch.debounce    --debounce (watch)
//
// Flags given on the command line win.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// Logger flags take effect before parsing, so they also apply to errors
// reported by the parser.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: the pprof
//     directory in the user cache directory)
//
// # Examples
//
//	# Compile with debug logging
//	moco --log-level=debug run
//
//	# Expand a fragment using shared definitions
//	echo 'v.x = lerp(0, 10, 0.5);' | moco -l lib.molang expand
//
//	# Recompile on change, with CPU profiling
//	moco --pprof-mode=cpu watch
package cli
