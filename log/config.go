package log

//go:generate go tool stringer --linecomment --type Level,Format --output config_string.go

import (
	"io"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Level represents the severity of a log message.
type Level slog.Level

const (
	LevelTrace Level = Level(slog.LevelDebug - 4) // trace
	LevelDebug Level = Level(slog.LevelDebug)     // debug
	LevelInfo  Level = Level(slog.LevelInfo)      // info
	LevelWarn  Level = Level(slog.LevelWarn)      // warn
	LevelError Level = Level(slog.LevelError)     // error
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

var levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// Levels returns the names of all defined log levels, most verbose first.
func Levels() iter.Seq[string] { return names(levels) }

// ParseLevel returns the level named by s. Besides the defined names it
// accepts anything [slog.Level.UnmarshalText] does, such as "warn+2".
// Unrecognized input yields [DefaultLevel].
func ParseLevel(s string) Level {
	if strings.EqualFold(s, LevelTrace.String()) {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatJSON

var formats = []Format{FormatJSON, FormatText}

// Formats returns the names of all defined log formats.
func Formats() iter.Seq[string] { return names(formats) }

// ParseFormat returns the format named by s, ignoring case and surrounding
// space. Unrecognized input yields [DefaultFormat].
func ParseFormat(s string) Format {
	s = strings.TrimSpace(s)

	for _, f := range formats {
		if strings.EqualFold(s, f.String()) {
			return f
		}
	}

	return DefaultFormat
}

func names[T interface{ String() string }](values []T) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, v := range values {
			if !yield(v.String()) {
				return
			}
		}
	}
}

// FormatTime defines a function that formats a time.Time value as a string.
// An empty result omits the timestamp.
type FormatTime func(time.Time) string

const (
	// DefaultTimeLayout is the default used when no valid time layout is
	// provided.
	DefaultTimeLayout = time.RFC3339

	// DefaultCaller is the default setting for including caller information
	// in log output.
	DefaultCaller = false

	// DefaultPretty is the default setting for pretty printing log output.
	DefaultPretty = true
)

// config holds the settings a [Logger] was built from. It is a plain value:
// every [Option] returns a modified copy, so loggers sharing a base never
// observe each other's changes.
type config struct {
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

// makeConfig returns the default settings for w overridden by opts.
func makeConfig(w io.Writer, opts ...Option) config {
	return apply(config{}, slices.Insert(opts, 0, WithDefaults(w))...)
}

// handler builds the [slog.Handler] described by c.
func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replace,
	}

	var build func(io.Writer, *slog.HandlerOptions) slog.Handler

	switch {
	case c.format == FormatJSON && c.pretty:
		build = newPrettyJSONHandler
	case c.format == FormatText && c.pretty:
		build = newPrettyTextHandler
	case c.format == FormatJSON:
		build = func(w io.Writer, o *slog.HandlerOptions) slog.Handler {
			return slog.NewJSONHandler(w, o)
		}
	case c.format == FormatText:
		build = func(w io.Writer, o *slog.HandlerOptions) slog.Handler {
			return slog.NewTextHandler(w, o)
		}
	default:
		return slog.DiscardHandler
	}

	return build(c.output, opts)
}

// replace rewrites the built-in time and level attributes: timestamps use the
// configured layout, or vanish when it is empty, and levels print by name so
// trace shows as "TRACE" rather than "DEBUG-4".
func (c config) replace(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		t, ok := a.Value.Any().(time.Time)
		if !ok {
			break
		}

		s := c.formatTime(t)
		if s == "" {
			return slog.Attr{}
		}

		a.Value = slog.StringValue(s)

	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
		}
	}

	return a
}

// WithDefaults returns an option that resets every setting: output to w,
// [DefaultTimeLayout], [DefaultLevel], [DefaultFormat], [DefaultCaller] and
// [DefaultPretty].
func WithDefaults(w io.Writer) Option {
	return func(c config) config {
		c = WithOutput(w)(c)
		c.formatTime = timeFormatter(DefaultTimeLayout)
		c.level = DefaultLevel
		c.format = DefaultFormat
		c.caller = DefaultCaller
		c.pretty = DefaultPretty

		return c
	}
}

// WithOutput returns an option that sets the writer receiving log messages.
// A nil writer discards them.
func WithOutput(w io.Writer) Option {
	if w == nil {
		w = io.Discard
	}

	return func(c config) config {
		c.output = w

		return c
	}
}

// WithLevel returns an option that sets the minimum level logged.
func WithLevel(level Level) Option {
	return func(c config) config {
		c.level = level

		return c
	}
}

// WithFormat returns an option that sets the output format.
func WithFormat(format Format) Option {
	return func(c config) config {
		c.format = format

		return c
	}
}

// WithTimeLayout returns an option that sets the layout of log timestamps.
//
// Named layouts from the [time] package are matched ignoring case and
// punctuation, so "RFC3339" and "rfc-3339" are equivalent, and a few short
// aliases such as "ms" and "ns" select the Stamp layouts. Any other layout is
// passed verbatim to [time.Time.Format]. A blank layout or "none" omits
// timestamps.
func WithTimeLayout(layout string) Option {
	format := timeFormatter(layout)

	return func(c config) config {
		c.formatTime = format

		return c
	}
}

// WithCaller returns an option that controls whether the source location of
// each call is logged.
func WithCaller(enable bool) Option {
	return func(c config) config {
		c.caller = enable

		return c
	}
}

// WithPretty returns an option that controls colorized output. Pretty text
// drops quoting and colors keys and values; pretty JSON is indented.
func WithPretty(enable bool) Option {
	return func(c config) config {
		c.pretty = enable

		return c
	}
}

// namedLayouts maps normalized layout names to [time] layouts.
var namedLayouts = map[string]string{
	"none":        "",
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"rfc1123":     time.RFC1123,
	"rfc1123z":    time.RFC1123Z,
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,
	"dateonly":    time.DateOnly,
	"timeonly":    time.TimeOnly,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"stampmicro":  time.StampMicro,
	"stampnano":   time.StampNano,
}

// layoutAliases are short names for the sub-second Stamp layouts.
var layoutAliases = map[string]string{
	"ms": "stampmilli", "milli": "stampmilli", "millis": "stampmilli",
	"us": "stampmicro", "micro": "stampmicro", "micros": "stampmicro",
	"ns": "stampnano", "nano": "stampnano", "nanos": "stampnano",
}

// normalizeLayout lowercases name and keeps only letters and digits.
func normalizeLayout(name string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(name) {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func timeFormatter(layout string) FormatTime {
	key := normalizeLayout(layout)
	if alias, ok := layoutAliases[key]; ok {
		key = alias
	}

	if named, ok := namedLayouts[key]; ok {
		layout = named
	} else if key == "" {
		layout = ""
	}

	if layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
