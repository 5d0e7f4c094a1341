package lang

import (
	"context"
	"log/slog"
)

// Inlined is the outcome of expanding a text to a fixed point.
type Inlined struct {
	// Text is the normalized result.
	Text string

	// Passes counts the expansion passes performed, including the final pass
	// that changed nothing when Stable is set.
	Passes int

	// Stable reports whether a pass produced no textual change before the
	// pass limit was reached. Calls may remain in stable text when expanding
	// them reproduces the same text. Unstable text is still returned, as is.
	Stable bool
}

// Inline expands every call of fns in text until a full pass produces no
// change, or until the pass limit (see [WithMaxPasses]) is reached. One pass
// applies each function once, in declaration order. The result is
// normalized with [Normalize] in either case.
func Inline(
	ctx context.Context,
	text string,
	fns []*Function,
	opts ...Option,
) Inlined {
	o := makeOptions(opts...)
	res := Inlined{Text: text}

	for res.Passes < o.maxPasses {
		next := res.Text
		for _, fn := range fns {
			next = fn.Expand(next)
		}

		res.Passes++

		if next == res.Text {
			res.Stable = true

			break
		}

		res.Text = next

		o.logger.TraceContext(ctx, "expansion pass",
			slog.Int("pass", res.Passes),
			slog.Int("length", len(next)))
	}

	if !res.Stable {
		o.logger.WarnContext(ctx, "expansion pass limit reached",
			slog.Int("passes", res.Passes),
			slog.Int("functions", len(fns)))
	}

	res.Text = Normalize(res.Text)

	return res
}
