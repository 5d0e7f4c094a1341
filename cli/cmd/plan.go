package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/ardnew/moco/compile"
)

// Plan prints each script that would be compiled, its destinations and its
// expanded content, without touching any document.
type Plan struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format" short:"o"`
	Indent int    `default:"2"                          help:"Indent width for JSON and YAML output" short:"i"`
}

// Run executes the plan command.
func (p *Plan) Run(ctx context.Context) (err error) {
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

	w := stdout(ctx)

	if p.Format == formatText {
		return writePlan(w, plan)
	}

	return encode(ctx, w, p.Format, p.Indent, plan)
}

// writePlan writes one block per entry: the script and its pack, an arrow
// line per target, and the content indented below.
func writePlan(w io.Writer, plan *compile.Plan) error {
	for i, e := range plan.Entries {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, "%s [%s]\n", e.Source, e.Pack); err != nil {
			return err
		}

		for _, t := range e.Targets {
			_, err := fmt.Fprintf(w, "  -> %s (%s)\n", t.File, t.Export.Component)
			if err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, "  %s\n", e.Unit.Content); err != nil {
			return err
		}
	}

	return nil
}
