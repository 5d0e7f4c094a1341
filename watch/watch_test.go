package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

// collect runs w until ctx is done, forwarding each batch.
func collect(ctx context.Context, t *testing.T, w *Watcher) <-chan []string {
	t.Helper()

	batches := make(chan []string, 16)

	go func() {
		_ = w.Run(ctx, func(_ context.Context, paths []string) {
			batches <- paths
		})
	}()

	return batches
}

// await returns the union of batches received until every path in want has
// been seen.
func await(t *testing.T, batches <-chan []string, want ...string) []string {
	t.Helper()

	var seen []string

	deadline := time.After(10 * time.Second)

	for {
		missing := slices.DeleteFunc(slices.Clone(want), func(p string) bool {
			return slices.Contains(seen, p)
		})
		if len(missing) == 0 {
			return seen
		}

		select {
		case batch := <-batches:
			seen = append(seen, batch...)

		case <-deadline:
			t.Fatalf("timed out waiting for %v, saw %v", missing, seen)
		}
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	w, err := New(
		WithDebounce(20*time.Millisecond),
		WithExcludeDirs(".*"),
		WithFilter(func(path string) bool { return strings.HasSuffix(path, ".molang") }),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	if err := w.Add(dir); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	batches := collect(ctx, t, w)

	a := filepath.Join(dir, "a.molang")
	write(t, a, "v.x = 1;")
	write(t, filepath.Join(dir, "ignored.json"), "{}")

	seen := await(t, batches, a)
	if slices.Contains(seen, filepath.Join(dir, "ignored.json")) {
		t.Errorf("batch %v contains a filtered path", seen)
	}

	t.Run("new directory", func(t *testing.T) {
		sub := filepath.Join(dir, "sub")
		if err := os.Mkdir(sub, 0o755); err != nil {
			t.Fatal(err)
		}

		// Give the watcher time to add the new directory.
		time.Sleep(100 * time.Millisecond)

		b := filepath.Join(sub, "b.molang")
		write(t, b, "v.y = 2;")

		await(t, batches, b)
	})

	t.Run("remove", func(t *testing.T) {
		if err := os.Remove(a); err != nil {
			t.Fatal(err)
		}

		await(t, batches, a)
	})
}

func TestWatcherCoalesces(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	w, err := New(WithDebounce(200 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	if err := w.Add(dir); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	batches := collect(ctx, t, w)

	path := filepath.Join(dir, "a.molang")
	for i := range 5 {
		write(t, path, strings.Repeat("x", i+1))
	}

	got := await(t, batches, path)
	if len(got) != 1 {
		t.Errorf("batch = %v, want a single entry", got)
	}
}

func TestWatcherContext(t *testing.T) {
	t.Parallel()

	w, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := w.Run(ctx, func(context.Context, []string) {}); err != context.Canceled {
		t.Errorf("Run() error = %v, want %v", err, context.Canceled)
	}
}

func TestExcludeDirs(t *testing.T) {
	t.Parallel()

	if _, err := New(WithExcludeDirs("[")); err == nil {
		t.Error("New() accepted an invalid pattern")
	}

	w, err := New(WithExcludeDirs(".*", "node_modules"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	tests := map[string]bool{
		"/p/.git":         true,
		"/p/node_modules": true,
		"/p/molang":       false,
	}

	for path, want := range tests {
		if got := w.shouldExcludeDir(path); got != want {
			t.Errorf("shouldExcludeDir(%q) = %v, want %v", path, got, want)
		}
	}
}
