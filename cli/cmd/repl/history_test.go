package repl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history")

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file error = %v", err)
	}

	for _, line := range []string{"f(1)", ":list", ":list", "g(2)", " f(1) ", "   "} {
		if err := h.Add(line); err != nil {
			t.Fatalf("Add(%q) error = %v", line, err)
		}
	}

	want := []string{":list", "g(2)", "f(1)"}

	if diff := cmp.Diff(want, h.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != ":list\ng(2)\nf(1)\n" {
		t.Errorf("history file = %q", got)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(want, reloaded.Lines()); diff != "" {
		t.Errorf("reloaded mismatch (-want +got):\n%s", diff)
	}

	if _, err := reloaded.Entry(3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Entry(3) error = %v, want %v", err, ErrOutOfBounds)
	}
}

func TestHistoryLimit(t *testing.T) {
	t.Parallel()

	h := NewHistory(filepath.Join(t.TempDir(), "history"))

	for i := range maxHistory + 5 {
		if err := h.Add(fmt.Sprintf("v.x = %d;", i)); err != nil {
			t.Fatal(err)
		}
	}

	if h.Len() != maxHistory {
		t.Errorf("Len() = %d, want %d", h.Len(), maxHistory)
	}

	if first, _ := h.Entry(0); first != "v.x = 5;" {
		t.Errorf("oldest entry = %q, want the first five dropped", first)
	}
}

func TestHistoryInMemory(t *testing.T) {
	t.Parallel()

	h := NewHistory("")
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if err := h.Add("x"); err != nil {
		t.Fatal(err)
	}

	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}
