package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ardnew/moco/compile"
	"github.com/ardnew/moco/config"
	"github.com/ardnew/moco/discover"
	"github.com/ardnew/moco/log"
	"github.com/ardnew/moco/watch"
)

// Watch compiles the project, then recompiles it whenever a script changes.
type Watch struct {
	Debounce time.Duration `help:"Quiet period before recompiling (default: watch.debounce setting)"`
	DryRun   bool          `help:"Report the documents that would change without writing them" short:"n"`
}

// Run executes the watch command until interrupted.
func (w *Watch) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg, err := projectConfig(ctx)
	if err != nil {
		return err
	}

	m, err := discover.NewMatcher(cfg.Source.Include, cfg.Source.Exclude)
	if err != nil {
		return err
	}

	roots := sourceRoots(cfg)
	if len(roots) == 0 {
		return ErrNoInput.
			With(slog.String("source", cfg.Source.Directory)).
			Wrap(os.ErrNotExist)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = cfg.Watch.Interval()
	}

	watcher, err := watch.New(
		watch.WithDebounce(debounce),
		watch.WithExcludeDirs(".*"),
		watch.WithFilter(func(path string) bool { return isScript(roots, m, path) }),
	)
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, root := range roots {
		if err := watcher.Add(root); err != nil {
			return err
		}
	}

	w.compile(ctx, cfg, nil)

	log.InfoContext(ctx, "watching for changes",
		slog.Any("dirs", roots),
		slog.Duration("debounce", debounce))

	err = watcher.Run(ctx, func(ctx context.Context, paths []string) {
		w.compile(ctx, cfg, paths)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

func (w *Watch) compile(ctx context.Context, cfg *config.Config, changed []string) {
	if len(changed) > 0 {
		log.InfoContext(ctx, "change detected", slog.Any("paths", changed))
	}

	report, err := compile.Run(ctx, cfg, compile.WithDryRun(w.DryRun))
	if err != nil {
		log.ErrorContext(ctx, "compile failed", slog.Any("error", err))

		return
	}

	for _, path := range report.Written {
		log.InfoContext(ctx, "document updated",
			slog.String("path", path),
			slog.Bool("dry_run", w.DryRun))
	}
}

// sourceRoots returns the source directories of cfg that exist.
func sourceRoots(cfg *config.Config) []string {
	var roots []string

	for _, pack := range cfg.Packs.List() {
		dir := discover.SourceDir(pack, cfg.Source.Directory)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			roots = append(roots, dir)
		}
	}

	return roots
}

// isScript reports whether path is an ignore file, or a script selected by m
// below one of roots.
func isScript(roots []string, m *discover.Matcher, path string) bool {
	if filepath.Base(path) == discover.IgnoreFile {
		return true
	}

	for _, root := range roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}

		return m.Match(filepath.ToSlash(rel))
	}

	return false
}
