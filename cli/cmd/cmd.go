package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/alecthomas/kong"

	"github.com/ardnew/moco/config"
	"github.com/ardnew/moco/log"
)

type kongContextKey struct{}

// WithContext returns ctx carrying the parsed command line, from which
// commands read the kong variables and output writer.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, kongContextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(kongContextKey{}).(*kong.Context)

	return ktx
}

// vars returns the kong variables of the running command, or nil.
func vars(ctx context.Context) kong.Vars {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Model != nil {
		return ktx.Model.Vars()
	}

	return nil
}

// stdout returns the writer for command output.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// workdir returns the project directory named by [WorkdirIdentifier], or the
// current directory.
func workdir(ctx context.Context) string {
	if dir := vars(ctx)[WorkdirIdentifier]; dir != "" {
		return dir
	}

	if dir, err := os.Getwd(); err == nil {
		return dir
	}

	return "."
}

// projectConfig loads the configuration file named by [ConfigIdentifier]. If
// no file is named, the defaults are used with paths relative to the project
// directory.
func projectConfig(ctx context.Context) (*config.Config, error) {
	if path := vars(ctx)[ConfigIdentifier]; path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}

		log.DebugContext(ctx, "configuration loaded", slog.String("path", path))

		return cfg, nil
	}

	dir := workdir(ctx)

	log.InfoContext(ctx, "no configuration file, using defaults",
		slog.String("dir", dir))

	return config.New(dir), nil
}

// SourceFiles reads a list of script files as one stream.
type SourceFiles interface {
	io.Reader
	io.WriterTo
	io.Closer

	// IsZero reports whether there is nothing to read.
	IsZero() bool

	// Stdin returns standard input if it is one of the sources, or nil.
	Stdin() io.Reader
}

// stdinSource names standard input in a list of sources.
const stdinSource = "-"

type sourceFilesKey struct{}

// WithSourceFiles returns a new context.Context holding the library scripts
// whose function definitions precede every unit read by expand and repl.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, OpenSources(sources))
}

// sourceFilesFrom returns the library scripts stored by [WithSourceFiles], or
// nil.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}

// sourceSet is the [SourceFiles] returned by [OpenSources].
type sourceSet struct {
	io.Reader

	stdin io.Reader
	files []*os.File
}

func (s *sourceSet) IsZero() bool { return len(s.files) == 0 && s.stdin == nil }

func (s *sourceSet) Stdin() io.Reader { return s.stdin }

func (s *sourceSet) WriteTo(w io.Writer) (int64, error) { return io.Copy(w, s.Reader) }

// Close closes every opened file. Standard input is left open.
func (s *sourceSet) Close() error {
	errs := make([]error, 0, len(s.files))
	for _, f := range s.files {
		errs = append(errs, f.Close())
	}

	return errors.Join(errs...)
}

// OpenSources opens the given script paths for reading as one stream.
//
// A file named more than once, through any path or symlink, is read once.
// Standard input, named "-" or by a path such as /dev/stdin, is read last.
// Files that cannot be opened are skipped. It returns nil if nothing could
// be opened.
func OpenSources(paths []string) SourceFiles {
	if len(paths) == 0 {
		return nil
	}

	var (
		src    sourceSet
		opened []os.FileInfo
	)

	stdinInfo, _ := os.Stdin.Stat()

	for _, path := range paths {
		info, err := os.Stat(path)

		switch {
		case path == stdinSource, err == nil && stdinInfo != nil && os.SameFile(info, stdinInfo):
			src.stdin = os.Stdin

			continue

		case err != nil:
			log.Debug("source skipped", slog.String("path", path), slog.Any("error", err))

			continue

		case slices.ContainsFunc(opened, func(fi os.FileInfo) bool { return os.SameFile(fi, info) }):
			log.Debug("duplicate source skipped", slog.String("path", path))

			continue
		}

		file, err := os.Open(path)
		if err != nil {
			log.Debug("source skipped", slog.String("path", path), slog.Any("error", err))

			continue
		}

		opened = append(opened, info)
		src.files = append(src.files, file)
	}

	if src.IsZero() {
		return nil
	}

	readers := make([]io.Reader, 0, len(src.files)+1)
	for _, f := range src.files {
		readers = append(readers, f)
	}

	if src.stdin != nil {
		readers = append(readers, src.stdin)
	}

	src.Reader = io.MultiReader(readers...)

	return &src
}
