package pkg

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "moco"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	// Version is embedded from the VERSION file next to this package.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if Version != string(buf) {
		t.Errorf("Expected Version to be %q, got %q", buf, Version)
	}

	if strings.TrimSpace(Version) == "" {
		t.Error("Expected Version to be non-empty")
	}
}

func TestError(t *testing.T) {
	errA := errors.New("a")
	errB := &fs.PathError{Op: "open", Path: "b.json", Err: fs.ErrNotExist}

	e := MakeError(nil, errA).Wrap(nil, errB)

	if len(e) != 2 {
		t.Fatalf("Expected 2 members, got %d", len(e))
	}

	if got, want := e.Error(), "a; open b.json: file does not exist"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err := e.Err()
	if !errors.Is(err, errA) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected %v to match every member", err)
	}

	var pe *fs.PathError
	if !errors.As(err, &pe) || pe.Path != "b.json" {
		t.Errorf("Expected errors.As to find the path error, got %v", pe)
	}

	if MakeError().Err() != nil || MakeError(nil).Err() != nil {
		t.Error("Expected an empty Error to yield a nil error")
	}
}

func TestPaths(t *testing.T) {
	if p := Prefix(); p == "" || strings.HasPrefix(p, ".") {
		t.Errorf("Prefix() = %q", p)
	}

	if got, want := CachePath("h"), filepath.Join(CacheDir(), "h"); got != want {
		t.Errorf("CachePath() = %q, want %q", got, want)
	}

	if got := userDir(func() (string, error) { return "", fs.ErrNotExist }, ".x"); !strings.HasSuffix(got, Prefix()) {
		t.Errorf("userDir() fallback = %q", got)
	}
}

func TestFault(t *testing.T) {
	t.Parallel()

	errKind := NewFault("load")
	cause := fs.ErrNotExist

	tests := []struct {
		name    string
		err     *Fault
		want    string
		matches bool
	}{
		{"sentinel", errKind, "load", true},
		{"wrapped", errKind.Wrap(cause), "load: " + cause.Error(), true},
		{"with", errKind.With(slog.String("path", "a.json")), "load", true},
		{"other_kind", NewFault("save"), "save", false},
		{"as_fault", AsFault(cause), cause.Error(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}

			if got := errors.Is(tt.err, errKind); got != tt.matches {
				t.Errorf("errors.Is(%v, sentinel) = %v", tt.err, got)
			}
		})
	}

	wrapped := fmt.Errorf("outer: %w", errKind.Wrap(cause).With(slog.Int("n", 1)))
	if !errors.Is(wrapped, cause) {
		t.Error("cause not reachable through the Fault")
	}

	if f := AsFault(wrapped); !errors.Is(f, errKind) || len(f.attrs) != 1 {
		t.Errorf("AsFault() = %#v, want the wrapped Fault", f)
	}

	if len(errKind.attrs) != 0 || errKind.cause != nil {
		t.Error("Wrap or With modified the sentinel")
	}
}
