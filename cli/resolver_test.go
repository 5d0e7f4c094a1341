package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/moco/config"
)

type resolverCLI struct {
	LogLevel string `default:"info"`

	Expand struct {
		MaxPasses int `config:"expand-max-passes" default:"32"`
	} `cmd:""`

	Repl struct {
		MaxPasses int `config:"expand-max-passes" default:"32"`
	} `cmd:""`

	Watch struct {
		Debounce time.Duration
	} `cmd:""`
}

type resolved struct {
	LogLevel  string
	MaxPasses int
	Debounce  time.Duration
}

func TestResolver(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"moco_config.json": `{"log": {"level": "debug"}, "expand": {"maxPasses": 7}, "watch": {"debounce": "2s"}}`,
		"moco_config.yaml": "log:\n  level: debug\nexpand:\n  maxPasses: 7\nwatch:\n  debounce: 2s\n",
		"moco_config.toml": "[log]\nlevel = \"debug\"\n[expand]\nmaxPasses = 7\n[watch]\ndebounce = \"2s\"\n",
	}

	tests := []struct {
		name string
		args []string
		want resolved
	}{
		{
			name: "expand",
			args: []string{"expand"},
			want: resolved{LogLevel: "debug", MaxPasses: 7},
		},
		{
			name: "repl_shares_expand_setting",
			args: []string{"repl"},
			want: resolved{LogLevel: "debug", MaxPasses: 7},
		},
		{
			name: "command_prefixed",
			args: []string{"watch"},
			want: resolved{LogLevel: "debug", Debounce: 2 * time.Second},
		},
		{
			name: "flag_wins",
			args: []string{"--log-level=warn", "expand", "--max-passes=3"},
			want: resolved{LogLevel: "warn", MaxPasses: 3},
		},
	}

	for file, content := range files {
		path := filepath.Join(t.TempDir(), file)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		format, err := config.FormatOf(path)
		if err != nil {
			t.Fatal(err)
		}

		for _, tt := range tests {
			t.Run(format.String()+"/"+tt.name, func(t *testing.T) {
				t.Parallel()

				var cli resolverCLI

				parser, err := kong.New(&cli, kong.Configuration(load(format), path))
				if err != nil {
					t.Fatal(err)
				}

				ktx, err := parser.Parse(tt.args)
				if err != nil {
					t.Fatal(err)
				}

				got := resolved{LogLevel: cli.LogLevel, Debounce: cli.Watch.Debounce}

				switch ktx.Command() {
				case "expand":
					got.MaxPasses = cli.Expand.MaxPasses
				case "repl":
					got.MaxPasses = cli.Repl.MaxPasses
				}

				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Errorf("resolved mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestResolverInvalidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "moco_config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var cli resolverCLI

	parser, err := kong.New(&cli, kong.Configuration(load(config.FormatJSON), path))
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}

	if _, err := parser.Parse([]string{"watch"}); err != nil {
		t.Fatal(err)
	}

	if cli.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default", cli.LogLevel)
	}
}

func TestScalar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want any
	}{
		{float64(1.5), "1.5"},
		{float64(32), "32"},
		{int64(-4), "-4"},
		{uint64(7), "7"},
		{8, "8"},
		{"text", "text"},
		{true, true},
	}

	for _, tt := range tests {
		if got := scalar(tt.in); got != tt.want {
			t.Errorf("scalar(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
