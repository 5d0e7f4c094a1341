package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
)

// writeFiles creates each named file under dir with the given content.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestOpenSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.molang": "first",
		"b.molang": "second",
	})

	a := filepath.Join(dir, "a.molang")
	b := filepath.Join(dir, "b.molang")

	link := filepath.Join(dir, "link.molang")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		sources []string
		want    string
		wantNil bool
	}{
		{name: "none", wantNil: true},
		{name: "empty", sources: []string{}, wantNil: true},
		{name: "single", sources: []string{a}, want: "first"},
		{name: "ordered", sources: []string{b, a}, want: "secondfirst"},
		{name: "duplicate", sources: []string{a, a, a}, want: "first"},
		{name: "symlink", sources: []string{a, link, b}, want: "firstsecond"},
		{name: "missing_skipped", sources: []string{filepath.Join(dir, "nope"), b}, want: "second"},
		{name: "all_missing", sources: []string{filepath.Join(dir, "nope")}, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := OpenSources(tt.sources)
			if tt.wantNil {
				if src != nil {
					t.Fatalf("OpenSources(%q) = %v, want nil", tt.sources, src)
				}

				return
			}

			if src == nil {
				t.Fatalf("OpenSources(%q) = nil", tt.sources)
			}
			defer src.Close()

			if src.Stdin() != nil {
				t.Error("Stdin() != nil without \"-\"")
			}

			data, err := io.ReadAll(src)
			if err != nil {
				t.Fatal(err)
			}

			if string(data) != tt.want {
				t.Errorf("read %q, want %q", data, tt.want)
			}
		})
	}
}

// withStdin replaces os.Stdin with a pipe carrying content until the test
// ends. Tests using it must not run in parallel.
func withStdin(t *testing.T, content string) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	orig := os.Stdin
	os.Stdin = r

	t.Cleanup(func() {
		os.Stdin = orig
		r.Close()
	})

	go func() {
		defer w.Close()
		io.WriteString(w, content)
	}()
}

func TestOpenSourcesStdinLast(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.molang": "file;"})

	withStdin(t, "stdin;")

	src := OpenSources([]string{"-", filepath.Join(dir, "a.molang"), "-"})
	if src == nil {
		t.Fatal("OpenSources() = nil")
	}
	defer src.Close()

	if src.Stdin() == nil {
		t.Error("Stdin() = nil with \"-\"")
	}

	data, err := io.ReadAll(src)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), "file;stdin;"; got != want {
		t.Errorf("read %q, want %q", got, want)
	}
}

func TestSourceFilesFrom(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"lib.molang": "function f() { 1 }"})

	ctx, _ := kongContext(t, kong.Vars{})

	if src := sourceFilesFrom(ctx); src != nil {
		t.Errorf("sourceFilesFrom() = %v without library", src)
	}

	ctx = WithSourceFiles(ctx, []string{filepath.Join(dir, "lib.molang")})

	src := sourceFilesFrom(ctx)
	if src == nil || src.IsZero() {
		t.Fatal("sourceFilesFrom() is empty")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), "function f() { 1 }"; got != want {
		t.Errorf("read %q, want %q", got, want)
	}
}

func TestWorkdir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx, _ := kongContext(t, kong.Vars{WorkdirIdentifier: dir})

	if got := workdir(ctx); got != dir {
		t.Errorf("workdir() = %q, want %q", got, dir)
	}

	cfg, err := projectConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if want := filepath.Join(dir, "packs", "BP"); cfg.Packs.BehaviorPack != want {
		t.Errorf("BehaviorPack = %q, want %q", cfg.Packs.BehaviorPack, want)
	}
}
