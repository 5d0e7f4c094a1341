// Package compile turns the script files of a project into edits of its pack
// documents.
//
// A run has two stages. [Prepare] discovers and parses every script into a
// [Plan]; [Apply] injects the content of each planned unit into the
// components named by its export directives and saves the changed documents.
// A problem in one script or one directive is recorded in the [Report] and
// never stops the rest of the run.
package compile

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ardnew/moco/config"
	"github.com/ardnew/moco/discover"
	"github.com/ardnew/moco/document"
	"github.com/ardnew/moco/lang"
	"github.com/ardnew/moco/log"
)

// Target is one export directive resolved against the root of its pack.
type Target struct {
	File   string      `json:"file"   yaml:"file"`
	Export lang.Export `json:"export" yaml:"export"`
}

// Entry is a parsed script and the documents it writes to.
type Entry struct {
	Source  string     `json:"source"  yaml:"source"`
	Pack    string     `json:"pack"    yaml:"pack"`
	Targets []Target   `json:"targets" yaml:"targets"`
	Unit    *lang.Unit `json:"unit"    yaml:"unit"`
}

// Plan is the outcome of [Prepare].
type Plan struct {
	ID      string   `json:"id"      yaml:"id"`
	Entries []*Entry `json:"entries" yaml:"entries"`

	// Report accumulates the results of both stages.
	Report *Report `json:"-" yaml:"-"`
}

// Option configures [Apply] and [Run].
type Option func(*options)

type options struct {
	dryRun bool
}

// WithDryRun performs every step except saving documents.
func WithDryRun(enable bool) Option {
	return func(o *options) {
		o.dryRun = enable
	}
}

func makeOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Run prepares and applies a plan for cfg. The error is non-nil only if the
// scripts could not be discovered; per-script and per-directive failures are
// in the report.
func Run(ctx context.Context, cfg *config.Config, opts ...Option) (*Report, error) {
	plan, err := Prepare(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return Apply(ctx, cfg, plan, opts...), nil
}

// Prepare discovers and parses the scripts of every pack in cfg.
//
// Scripts without content or without export directives are skipped. Scripts
// that cannot be read or carry a malformed directive are reported as
// failures.
func Prepare(ctx context.Context, cfg *config.Config) (*Plan, error) {
	id := uuid.NewString()
	logger := log.With(slog.String("run", id))

	files, err := discover.Files(ctx, cfg.Packs.List(), cfg.Source)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		ID:     id,
		Report: &Report{ID: id, Sources: len(files)},
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, err := prepare(ctx, logger, cfg, f)

		switch {
		case errors.Is(err, lang.ErrEmptyUnit), errors.Is(err, lang.ErrNoExports):
			plan.Report.Skipped++

			logger.DebugContext(ctx, "unit discarded",
				slog.String("source", f.Path),
				slog.String("reason", err.Error()))

		case err != nil:
			fail := &Failure{Source: f.Path, Err: err}
			plan.Report.fail(fail)

			logger.ErrorContext(ctx, "unit rejected", slog.Any("failure", fail))

		default:
			plan.Entries = append(plan.Entries, entry)
		}
	}

	plan.Report.Units = len(plan.Entries)

	logger.DebugContext(ctx, "plan prepared",
		slog.Int("sources", len(files)),
		slog.Int("units", len(plan.Entries)))

	return plan, nil
}

func prepare(
	ctx context.Context,
	logger log.Logger,
	cfg *config.Config,
	f discover.File,
) (*Entry, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, lang.ErrReadInput.Wrap(err)
	}

	unit, err := lang.ParseUnit(ctx, string(data),
		lang.WithLogger(logger.With(slog.String("source", f.Rel))),
		lang.WithMaxPasses(cfg.Expand.MaxPasses),
	)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		Source:  f.Path,
		Pack:    f.Pack.Name,
		Targets: make([]Target, len(unit.Exports)),
		Unit:    unit,
	}

	for i, exp := range unit.Exports {
		entry.Targets[i] = Target{
			File:   filepath.Join(f.Pack.Root, filepath.FromSlash(exp.Destination())),
			Export: exp,
		}
	}

	return entry, nil
}

// Apply injects the content of every planned unit into its targets, in plan
// order, and saves each changed document once.
//
// A directive whose document is missing or unreadable, or whose component
// does not exist, is skipped and reported.
func Apply(
	ctx context.Context,
	cfg *config.Config,
	plan *Plan,
	opts ...Option,
) *Report {
	o := makeOptions(opts...)
	logger := log.With(slog.String("run", plan.ID))

	report := plan.Report
	if report == nil {
		report = &Report{ID: plan.ID, Units: len(plan.Entries)}
		plan.Report = report
	}

	report.DryRun = o.dryRun

	var (
		docs   = make(map[string]*document.Document)
		broken = make(map[string]error)
		order  []string
	)

	for _, entry := range plan.Entries {
		for _, t := range entry.Targets {
			doc, err := docs[t.File], broken[t.File]

			if doc == nil && err == nil {
				if doc, err = document.Read(t.File); err != nil {
					broken[t.File] = err
				} else {
					docs[t.File] = doc
					order = append(order, t.File)
				}
			}

			if err == nil {
				err = doc.Set(entry.Unit.Content, t.Export.Keys()...)
			}

			if err != nil {
				fail := &Failure{
					Source:    entry.Source,
					File:      t.File,
					Component: t.Export.Component,
					Err:       err,
				}
				report.fail(fail)

				logger.ErrorContext(ctx, "directive skipped", slog.Any("failure", fail))

				continue
			}

			report.Applied++

			logger.DebugContext(ctx, "component updated",
				slog.String("file", t.File),
				slog.String("component", t.Export.Component))
		}
	}

	for _, path := range order {
		doc := docs[path]
		if !doc.Modified() {
			continue
		}

		if !o.dryRun {
			if err := doc.Write(cfg.Output.Indent); err != nil {
				fail := &Failure{File: path, Err: err}
				report.fail(fail)

				logger.ErrorContext(ctx, "document not saved", slog.Any("failure", fail))

				continue
			}
		}

		report.Written = append(report.Written, path)

		logger.InfoContext(ctx, "document written",
			slog.String("file", path),
			slog.Bool("dry_run", o.dryRun))
	}

	logger.InfoContext(ctx, "run complete", slog.Any("report", report))

	return report
}
