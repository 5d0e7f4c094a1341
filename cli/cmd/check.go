package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/moco/compile"
	"github.com/ardnew/moco/log"
)

// Check validates the configuration and every script without writing.
//
// Each export directive is resolved against its document, so a missing file
// or component is reported just as run would report it.
type Check struct{}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg, err := projectConfig(ctx)
	if err != nil {
		return err
	}

	plan, err := compile.Prepare(ctx, cfg)
	if err != nil {
		return err
	}

	report := compile.Apply(ctx, cfg, plan, compile.WithDryRun(true))
	if err := failures(report); err != nil {
		return err
	}

	log.InfoContext(ctx, "check passed",
		slog.Int("units", report.Units),
		slog.Int("directives", report.Applied))

	return nil
}
