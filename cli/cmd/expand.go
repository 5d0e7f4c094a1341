package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/moco/lang"
	"github.com/ardnew/moco/pkg"
)

// Expand prints the expanded form of one script. Export directives are
// optional, so fragments can be tried out on their own.
//
// All sources are read in order as a single unit, after any --library
// scripts, so a file of shared definitions can precede the script using it.
type Expand struct {
	Format    string   `default:"text" enum:"text,json,yaml" help:"Output format"                               short:"o"`
	Indent    int      `default:"2"                          help:"Indent width for JSON and YAML output"       short:"i"`
	MaxPasses int      `config:"expand-max-passes" default:"${maxPasses}" help:"Maximum number of expansion passes" short:"m"`
	Sources   []string `arg:"" default:"-"                   help:"Script file(s) or '-' for stdin"              name:"source"`
}

// Run executes the expand command.
func (e *Expand) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readUnit(ctx, e.Sources)
	if err != nil {
		return err
	}

	unit, err := lang.ParseUnit(ctx, src,
		lang.WithoutExports(),
		lang.WithMaxPasses(e.MaxPasses),
	)
	if err != nil {
		return pkg.AsFault(err).With(slog.String("command", "expand"))
	}

	w := stdout(ctx)

	switch e.Format {
	case formatJSON:
		return unit.FormatJSON(ctx, w, e.Indent)

	case formatYAML:
		return unit.FormatYAML(ctx, w, e.Indent)

	default:
		return unit.Format(ctx, w)
	}
}

// readUnit returns the text of the library scripts in ctx followed by the
// given sources.
func readUnit(ctx context.Context, sources []string) (string, error) {
	var sb strings.Builder

	if lib := sourceFilesFrom(ctx); lib != nil {
		if _, err := lib.WriteTo(&sb); err != nil {
			return "", lang.ErrReadInput.Wrap(err)
		}

		// Keep the last library statement apart from the first source line.
		sb.WriteByte('\n')
	}

	src := OpenSources(sources)
	if src == nil {
		return "", ErrNoInput.With(slog.Any("sources", sources)).Wrap(os.ErrNotExist)
	}
	defer src.Close()

	if _, err := io.Copy(&sb, src); err != nil {
		return "", lang.ErrReadInput.Wrap(err)
	}

	return sb.String(), nil
}
