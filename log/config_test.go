package log

import (
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v; want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{" Text ", FormatText},
		{"xml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v; want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelsAndFormats(t *testing.T) {
	t.Parallel()

	var levels []string
	for l := range Levels() {
		levels = append(levels, l)
	}

	if got := strings.Join(levels, ","); got != "trace,debug,info,warn,error" {
		t.Errorf("Levels() = %s", got)
	}

	var formats []string
	for f := range Formats() {
		formats = append(formats, f)
	}

	if got := strings.Join(formats, ","); got != "json,text" {
		t.Errorf("Formats() = %s", got)
	}

	if got := Level(2).String(); got != "Level(2)" {
		t.Errorf("unnamed level String() = %q", got)
	}
}

func TestConfig_Options(t *testing.T) {
	t.Parallel()

	c := makeConfig(nil,
		WithLevel(LevelDebug),
		WithFormat(FormatText),
		WithCaller(true),
		WithPretty(false))

	if c.level != LevelDebug || c.format != FormatText || !c.caller || c.pretty {
		t.Errorf("options not applied: level=%v format=%v caller=%v pretty=%v",
			c.level, c.format, c.caller, c.pretty)
	}

	if c.output == nil {
		t.Error("nil writer not replaced")
	}
}

func TestConfig_formatTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339", "RFC3339", "2025-10-15T14:30:45Z"},
		{"rfc3339 nano", "rfc3339-nano", "2025-10-15T14:30:45.123456789Z"},
		{"kitchen", "Kitchen", "2:30PM"},
		{"milli alias", "ms", "Oct 15 14:30:45.123"},
		{"custom", "2006-01-02 15:04", "2025-10-15 14:30"},
		{"none", "none", ""},
		{"empty", "", ""},
		{"whitespace", "  \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := WithTimeLayout(tt.layout)(config{})
			if got := c.formatTime(now); got != tt.want {
				t.Errorf("formatTime with %q = %q; want %q", tt.layout, got, tt.want)
			}
		})
	}
}
