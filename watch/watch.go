// Package watch reports batches of file changes under a set of directory
// trees.
//
// Events are coalesced: a batch is delivered once no further change has been
// seen for the debounce interval. New subdirectories are watched as they
// appear.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/ardnew/moco/log"
)

// DefaultDebounce is the quiet period used if none is configured.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches directory trees for changes to selected files.
type Watcher struct {
	fsw         *fsnotify.Watcher
	debounce    time.Duration
	excludeDirs []glob.Glob
	filter      func(path string) bool

	pending map[string]struct{}
	timer   *time.Timer
}

// Option configures a [Watcher].
type Option func(*Watcher) error

// WithDebounce sets the quiet period that ends a batch. Non-positive values
// select [DefaultDebounce].
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) error {
		if d > 0 {
			w.debounce = d
		}

		return nil
	}
}

// WithExcludeDirs skips directories whose base name matches any pattern.
func WithExcludeDirs(patterns ...string) Option {
	return func(w *Watcher) error {
		for _, p := range patterns {
			g, err := glob.Compile(p)
			if err != nil {
				return err
			}

			w.excludeDirs = append(w.excludeDirs, g)
		}

		return nil
	}
}

// WithFilter restricts batches to files for which keep returns true.
func WithFilter(keep func(path string) bool) Option {
	return func(w *Watcher) error {
		w.filter = keep

		return nil
	}
}

// New returns a Watcher with no directories added.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: DefaultDebounce,
		filter:   func(string) bool { return true },
		pending:  make(map[string]struct{}),
	}

	for _, opt := range opts {
		if err := opt(w); err != nil {
			_ = fsw.Close()

			return nil, err
		}
	}

	return w, nil
}

// Add watches root and every directory below it that is not excluded.
func (w *Watcher) Add(root string) error {
	return w.watchRecursive(root)
}

// Close releases the underlying watch descriptors.
func (w *Watcher) Close() error {
	if w.timer != nil {
		w.timer.Stop()
	}

	return w.fsw.Close()
}

// Run delivers batches of changed paths to onChange until ctx is done or the
// watcher is closed. Paths in a batch are sorted. onChange runs on the
// calling goroutine, so batches never overlap.
func (w *Watcher) Run(
	ctx context.Context,
	onChange func(ctx context.Context, paths []string),
) error {
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			if w.handle(ctx, event) {
				fire = w.scheduleChange()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}

			log.ErrorContext(ctx, "watcher error", slog.String("error", err.Error()))

		case <-fire:
			fire = nil

			if paths := w.flushChanges(); len(paths) > 0 {
				onChange(ctx, paths)
			}
		}
	}
}

// handle records a relevant event and reports whether anything is pending.
func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) bool {
	log.TraceContext(ctx, "watch event",
		slog.String("path", event.Name),
		slog.String("op", event.Op.String()))

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.shouldExcludeDir(event.Name) {
				return false
			}

			if err := w.watchRecursive(event.Name); err != nil {
				log.WarnContext(ctx, "failed to watch new directory",
					slog.String("path", event.Name),
					slog.String("error", err.Error()))

				return false
			}

			return w.enqueueExistingFiles(event.Name)
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	if !w.filter(event.Name) {
		return false
	}

	w.pending[event.Name] = struct{}{}

	return true
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != root && w.shouldExcludeDir(path) {
			return filepath.SkipDir
		}

		return w.fsw.Add(path)
	})
}

func (w *Watcher) enqueueExistingFiles(root string) bool {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}

		if w.filter(path) {
			w.pending[path] = struct{}{}
		}

		return nil
	})

	return len(w.pending) > 0
}

// scheduleChange restarts the quiet period and returns its expiry channel.
func (w *Watcher) scheduleChange() <-chan time.Time {
	if w.timer == nil {
		w.timer = time.NewTimer(w.debounce)
	} else {
		w.timer.Reset(w.debounce)
	}

	return w.timer.C
}

func (w *Watcher) flushChanges() []string {
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}

	clear(w.pending)
	slices.Sort(paths)

	return paths
}

func (w *Watcher) shouldExcludeDir(path string) bool {
	base := filepath.Base(path)

	for _, g := range w.excludeDirs {
		if g.Match(base) {
			return true
		}
	}

	return false
}
