package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/moco/log"
)

// logFormat configures the logger format as a side effect of parsing, so that
// errors reported during parsing already use it.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"text"    enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                         help:"Set timestamp format."`
	Caller     bool      `default:"false"                           help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                            help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies every parsed setting to the default logger. The returned
// function logs the end of the run.
func (f *logConfig) start(ctx context.Context) (stop func()) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return func() {
		log.TraceContext(ctx, "logger stopped", slog.Any("cause", context.Cause(ctx)))
	}
}

// scan applies the logger flags found in args before kong parses them, so
// the logger is configured regardless of flag position. Boolean flags never
// pass through UnmarshalText, so without this they would take effect only
// after parsing.
func (f *logConfig) scan(args []string) {
	found := scanArgs(args,
		[]string{"log-level", "log-format"},
		[]string{"log-pretty", "log-caller"},
	)

	if v, ok := found["log-level"]; ok {
		_ = f.Level.UnmarshalText([]byte(v))
	}

	if v, ok := found["log-format"]; ok {
		_ = f.Format.UnmarshalText([]byte(v))
	}

	if v, ok := found["log-pretty"]; ok {
		f.Pretty, _ = strconv.ParseBool(v)
		log.Config(log.WithPretty(f.Pretty))
	}

	if v, ok := found["log-caller"]; ok {
		f.Caller, _ = strconv.ParseBool(v)
		log.Config(log.WithCaller(f.Caller))
	}
}

// scanArgs returns the values of the named long flags in args, keyed by name
// without dashes. A valued flag takes "--name=value" or "--name value". A
// boolean flag yields "true" when bare, and its "--no-" form yields the
// negation. Scanning stops at "--". Later occurrences win.
func scanArgs(args []string, valued, boolean []string) map[string]string {
	found := make(map[string]string)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}

		if !strings.HasPrefix(arg, "--") {
			continue
		}

		name, value, assigned := strings.Cut(arg[2:], "=")

		switch {
		case slices.Contains(valued, name):
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				value, assigned = args[i], true
			}

			if assigned {
				found[name] = value
			}

		case slices.Contains(boolean, name):
			if !assigned {
				value = "true"
			}

			if b, err := strconv.ParseBool(value); err == nil {
				found[name] = strconv.FormatBool(b)
			}

		case strings.HasPrefix(name, "no-") && slices.Contains(boolean, name[3:]):
			if !assigned {
				value = "true"
			}

			if b, err := strconv.ParseBool(value); err == nil {
				found[name[3:]] = strconv.FormatBool(!b)
			}
		}
	}

	return found
}
