package compile

import (
	"log/slog"
	"strings"

	"github.com/ardnew/moco/pkg"
)

// Failure is a problem confined to one source file or one export directive.
type Failure struct {
	Source    string
	File      string
	Component string
	Err       error
}

// Error returns the failure location followed by its cause.
func (f *Failure) Error() string {
	part := make([]string, 0, 4)

	for _, s := range []string{f.Source, f.File, f.Component} {
		if s != "" {
			part = append(part, s)
		}
	}

	return strings.Join(append(part, f.Err.Error()), ": ")
}

func (f *Failure) Unwrap() error { return f.Err }

func (f *Failure) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 4)

	if f.Source != "" {
		attrs = append(attrs, slog.String("source", f.Source))
	}

	if f.File != "" {
		attrs = append(attrs, slog.String("file", f.File))
	}

	if f.Component != "" {
		attrs = append(attrs, slog.String("component", f.Component))
	}

	return slog.GroupValue(append(attrs, slog.Any("cause", f.Err))...)
}

// Report summarizes one run.
type Report struct {
	ID string `json:"id" yaml:"id"`

	// Sources counts the discovered script files, Units those that parsed
	// into a unit with at least one export, and Skipped those discarded for
	// having no content or no exports.
	Sources int `json:"sources" yaml:"sources"`
	Units   int `json:"units"   yaml:"units"`
	Skipped int `json:"skipped" yaml:"skipped"`

	// Applied counts the directives whose component received content.
	// Written lists the documents saved, in order, or those that would have
	// been saved if DryRun is set.
	Applied int      `json:"applied" yaml:"applied"`
	Written []string `json:"written" yaml:"written"`
	DryRun  bool     `json:"dryRun"  yaml:"dryRun"`

	Failures []*Failure `json:"-" yaml:"-"`
}

// Err aggregates every failure into a single error, or returns nil.
func (r *Report) Err() error {
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}

	return pkg.MakeError(errs...).Err()
}

func (r *Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", r.ID),
		slog.Int("sources", r.Sources),
		slog.Int("units", r.Units),
		slog.Int("skipped", r.Skipped),
		slog.Int("applied", r.Applied),
		slog.Int("written", len(r.Written)),
		slog.Int("failures", len(r.Failures)),
		slog.Bool("dry_run", r.DryRun),
	)
}

func (r *Report) fail(f *Failure) {
	r.Failures = append(r.Failures, f)
}
