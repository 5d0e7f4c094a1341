package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/moco/compile"
	"github.com/ardnew/moco/log"
)

// Compile expands every script of the project and injects the results into
// the pack documents.
type Compile struct {
	DryRun bool `help:"Report the documents that would change without writing them" short:"n"`
	Strict bool `help:"Exit with an error if any script or directive failed"`
}

// Run executes the run command.
func (c *Compile) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg, err := projectConfig(ctx)
	if err != nil {
		return err
	}

	report, err := compile.Run(ctx, cfg, compile.WithDryRun(c.DryRun))
	if err != nil {
		return err
	}

	for _, path := range report.Written {
		log.InfoContext(ctx, "document updated",
			slog.String("path", path),
			slog.Bool("dry_run", c.DryRun))
	}

	if c.Strict {
		return failures(report)
	}

	return nil
}

// failures returns ErrFailures wrapping every failure in report, or nil.
func failures(report *compile.Report) error {
	if err := report.Err(); err != nil {
		return ErrFailures.
			With(slog.Int("count", len(report.Failures))).
			Wrap(err)
	}

	return nil
}
