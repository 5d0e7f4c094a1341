// Package discover finds the script files of each configured pack.
package discover

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ardnew/moco/config"
	"github.com/ardnew/moco/log"
)

// IgnoreFile is the name of the file, placed in a pack's source directory,
// listing gitignore-style patterns of paths to skip.
const IgnoreFile = ".mocoignore"

// ErrPattern is returned for a source pattern that does not compile.
var ErrPattern = errors.New("invalid source pattern")

// File is a discovered script file.
type File struct {
	// Path is the location of the file, joined from the pack root.
	Path string
	// Rel is the slash-separated path relative to the source directory.
	Rel string
	// Pack is the pack the file was found in. Export destinations resolve
	// against its root.
	Pack config.Pack
}

// Files returns the script files of every pack in declaration order, each
// pack's files sorted by path.
//
// A pack whose source directory does not exist is skipped with a warning.
// Unreadable entries are skipped the same way.
func Files(
	ctx context.Context,
	packs []config.Pack,
	src config.Source,
) ([]File, error) {
	m, err := NewMatcher(src.Include, src.Exclude)
	if err != nil {
		return nil, err
	}

	var files []File

	for _, pack := range packs {
		found, err := packFiles(ctx, pack, src.Directory, m)
		if err != nil {
			return nil, err
		}

		files = append(files, found...)
	}

	return files, nil
}

// SourceDir returns the directory of pack scanned for scripts.
func SourceDir(pack config.Pack, dir string) string {
	return filepath.Join(pack.Root, dir)
}

func packFiles(
	ctx context.Context,
	pack config.Pack,
	dir string,
	m *Matcher,
) ([]File, error) {
	root := SourceDir(pack, dir)

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		log.WarnContext(ctx, "source directory not found",
			slog.String("pack", pack.Name),
			slog.String("path", root))

		return nil, nil
	}

	gi := loadIgnore(ctx, root)

	var files []File

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			log.WarnContext(ctx, "skipping unreadable path",
				slog.String("path", path),
				slog.String("error", err.Error()))

			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || (gi != nil && gi.MatchesPath(rel+"/")) {
				return filepath.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() || d.Name() == IgnoreFile {
			return nil
		}

		if gi != nil && gi.MatchesPath(rel) {
			log.TraceContext(ctx, "ignored source file",
				slog.String("pack", pack.Name),
				slog.String("file", rel))

			return nil
		}

		if !m.Match(rel) {
			return nil
		}

		files = append(files, File{Path: path, Rel: rel, Pack: pack})

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Rel < files[j].Rel
	})

	log.DebugContext(ctx, "discovered source files",
		slog.String("pack", pack.Name),
		slog.String("path", root),
		slog.Int("count", len(files)))

	return files, nil
}

func loadIgnore(ctx context.Context, root string) *ignore.GitIgnore {
	path := filepath.Join(root, IgnoreFile)

	if _, err := os.Stat(path); err != nil {
		return nil
	}

	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		log.WarnContext(ctx, "unreadable ignore file",
			slog.String("path", path),
			slog.String("error", err.Error()))

		return nil
	}

	return gi
}
