package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScanArgs(t *testing.T) {
	t.Parallel()

	valued := []string{"log-level", "config"}
	boolean := []string{"log-pretty", "log-caller"}

	tests := []struct {
		name string
		args []string
		want map[string]string
	}{
		{
			name: "assigned",
			args: []string{"--log-level=debug", "run"},
			want: map[string]string{"log-level": "debug"},
		},
		{
			name: "separate_value",
			args: []string{"plan", "--config", "x.toml"},
			want: map[string]string{"config": "x.toml"},
		},
		{
			name: "missing_value",
			args: []string{"--log-level", "--log-pretty"},
			want: map[string]string{"log-pretty": "true"},
		},
		{
			name: "negated",
			args: []string{"--no-log-pretty", "--no-log-caller=false"},
			want: map[string]string{"log-pretty": "false", "log-caller": "true"},
		},
		{
			name: "bad_bool",
			args: []string{"--log-caller=maybe"},
			want: map[string]string{},
		},
		{
			name: "last_wins",
			args: []string{"--log-level=debug", "--log-level=warn"},
			want: map[string]string{"log-level": "warn"},
		},
		{
			name: "stops_at_dashes",
			args: []string{"expand", "--", "--log-level=debug"},
			want: map[string]string{},
		},
		{
			name: "ignores_others",
			args: []string{"-l", "lib.molang", "--log-levels=x", "--configs"},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := scanArgs(tt.args, valued, boolean)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("scanArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLocate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "project", "moco_config.yaml")

	project, workdir := locate([]string{"--config", path, "check"})
	if project != path {
		t.Errorf("project = %q, want %q", project, path)
	}

	if want := filepath.Dir(path); workdir != want {
		t.Errorf("workdir = %q, want %q", workdir, want)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	// The package directory holds no configuration file.
	project, workdir = locate([]string{"check"})
	if project != "" || workdir != wd {
		t.Errorf("locate() = %q, %q, want \"\", %q", project, workdir, wd)
	}
}
