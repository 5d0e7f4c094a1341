package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/moco/config"
)

// kongContext returns a context holding a parsed kong context with the given
// variables. Command output is captured in the returned buffer.
func kongContext(t *testing.T, vars kong.Vars) (context.Context, *bytes.Buffer) {
	t.Helper()

	var (
		cli struct{}
		out bytes.Buffer
	)

	parser, err := kong.New(&cli, vars, kong.Writers(&out, io.Discard))
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), ktx), &out
}

func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		init     Init
		config   string // --config file name, relative to the project
		existing bool
		want     string // written file name, relative to the project
		wantErr  error
	}{
		{
			name: "default_json",
			want: "moco_config.json",
		},
		{
			name: "explicit_format",
			init: Init{Format: "yaml"},
			want: "moco_config.yaml",
		},
		{
			name:   "config_path",
			config: "custom.toml",
			want:   "custom.toml",
		},
		{
			name:   "format_overrides_config_path",
			init:   Init{Format: "toml"},
			config: "custom.json",
			want:   "moco_config.toml",
		},
		{
			name:     "exists",
			existing: true,
			want:     "moco_config.json",
			wantErr:  ErrFileExists,
		},
		{
			name:     "force",
			init:     Init{Force: true},
			existing: true,
			want:     "moco_config.json",
		},
		{
			name:    "unknown_extension",
			config:  "custom.ini",
			wantErr: config.ErrFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			vars := kong.Vars{WorkdirIdentifier: dir, ConfigIdentifier: ""}

			if tt.config != "" {
				vars[ConfigIdentifier] = filepath.Join(dir, tt.config)
			}

			path := filepath.Join(dir, tt.want)

			if tt.existing {
				if err := os.WriteFile(path, []byte("existing"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			ctx, _ := kongContext(t, vars)

			err := tt.init.Run(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr != nil {
				return
			}

			cfg, err := config.Load(path)
			if err != nil {
				t.Fatalf("config.Load(%q) error = %v", path, err)
			}

			if want := filepath.Join(dir, "packs", "RP"); cfg.Packs.ResourcePack != want {
				t.Errorf("ResourcePack = %q, want %q", cfg.Packs.ResourcePack, want)
			}
		})
	}
}

func TestInitMissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "moco_config.json")
	ctx, _ := kongContext(t, kong.Vars{ConfigIdentifier: path})

	err := (&Init{}).Run(ctx)
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Init.Run() error = %v, want %v", err, ErrWriteConfig)
	}
}
