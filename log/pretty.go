package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// field is one attribute flattened to a dotted key.
type field struct {
	key   string
	value slog.Value
	color string // overrides the color chosen by value kind
}

// flatten resolves a and appends it to dst. Group values are expanded into one
// field per member, their keys joined with dots.
func flatten(dst []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}

	key := a.Key

	switch {
	case prefix == "":
	case key == "":
		key = prefix
	default:
		key = prefix + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, member := range a.Value.Group() {
			dst = flatten(dst, key, member)
		}

		return dst
	}

	return append(dst, field{key: key, value: a.Value})
}

// encoder renders the fields of one record into buf.
type encoder func(buf *bytes.Buffer, fields []field)

// prettyHandler implements a colorized handler for interactive terminals.
// Attributes added with WithAttrs and WithGroup are kept and flattened.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	encode encoder
	fields []field
	prefix string
}

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return &prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w, encode: encodeText}
}

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return &prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w, encode: encodeJSON}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]field, 0, len(h.fields)+r.NumAttrs()+4)

	if !r.Time.IsZero() {
		fields = h.builtin(fields, slog.Time(slog.TimeKey, r.Time), "")
	}

	fields = h.builtin(fields, slog.Any(slog.LevelKey, r.Level), levelColor(r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			loc := src.File + ":" + strconv.Itoa(src.Line)
			fields = h.builtin(fields, slog.String(slog.SourceKey, loc), "")
		}
	}

	fields = h.builtin(fields, slog.String(slog.MessageKey, r.Message), "")
	fields = append(fields, h.fields...)

	r.Attrs(func(a slog.Attr) bool {
		fields = flatten(fields, h.prefix, a)

		return true
	})

	buf := new(bytes.Buffer)
	h.encode(buf, fields)
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// builtin appends a record field after passing it through ReplaceAttr.
func (h *prettyHandler) builtin(dst []field, a slog.Attr, color string) []field {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	n := len(dst)

	dst = flatten(dst, "", a)
	for i := n; i < len(dst); i++ {
		dst[i].color = color
	}

	return dst
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.fields = make([]field, len(h.fields), len(h.fields)+len(attrs))
	copy(c.fields, h.fields)

	for _, a := range attrs {
		c.fields = flatten(c.fields, h.prefix, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	if c.prefix == "" {
		c.prefix = name
	} else {
		c.prefix += "." + name
	}

	return &c
}

// encodeText writes key=value pairs separated by spaces.
func encodeText(buf *bytes.Buffer, fields []field) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(colorGray)
		buf.WriteString(f.key)
		buf.WriteString(colorReset)
		buf.WriteByte('=')
		writeValue(buf, f)
	}
}

// encodeJSON writes an indented object with one field per line. String values
// are left unquoted for readability.
func encodeJSON(buf *bytes.Buffer, fields []field) {
	buf.WriteString("{\n")

	for i, f := range fields {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(colorGray)
		buf.WriteString(f.key)
		buf.WriteString(colorReset)
		buf.WriteString(": ")
		writeValue(buf, f)
	}

	buf.WriteString("\n}")
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}

// kindColors are the value colors used when a field sets none.
var kindColors = map[slog.Kind]string{
	slog.KindInt64:    colorYellow,
	slog.KindUint64:   colorYellow,
	slog.KindFloat64:  colorYellow,
	slog.KindDuration: colorMagenta,
	slog.KindTime:     colorBlue,
}

func writeValue(buf *bytes.Buffer, f field) {
	v := f.value

	color := f.color
	if color == "" {
		color = valueColor(v)
	}

	buf.WriteString(color)
	buf.WriteString(valueText(v))
	buf.WriteString(colorReset)
}

func valueColor(v slog.Value) string {
	if v.Kind() == slog.KindBool {
		if v.Bool() {
			return colorGreen
		}

		return colorRed
	}

	if c, ok := kindColors[v.Kind()]; ok {
		return c
	}

	return colorCyan
}

// valueText formats v without quoting.
func valueText(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case slog.KindAny:
		if v.Any() == nil {
			return "null"
		}

		return fmt.Sprint(v.Any())
	}

	return v.String()
}
