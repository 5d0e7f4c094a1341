// Package log wraps [log/slog] with the handful of settings moco exposes on
// the command line: level, format, timestamp layout, caller reporting and
// colorized output.
//
// A [Logger] is an immutable value. [Make] builds one from functional options
// and [Logger.Wrap] derives a copy with some settings changed, so a logger
// handed to another goroutine never changes underneath it:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
//	logger.Info("unit parsed", slog.String("file", path))
//	logger = logger.With(slog.String("run", id))
//
// Every level has a context-aware method and a plain one; the plain one uses
// the context returned by [DefaultContextProvider].
//
// Levels run from [LevelTrace] to [LevelError]; trace sits below slog's
// debug level and prints as "TRACE". Output is [FormatJSON] or [FormatText].
// With [WithPretty] both are colorized, and attributes inside groups and
// [slog.LogValuer] results are flattened into dotted keys.
//
// The package-level functions such as [Info] and [DebugContext] log through a
// default logger writing to standard error. [Config] replaces it and
// [Default] returns it for packages that take a [Logger] explicitly.
package log
