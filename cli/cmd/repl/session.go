package repl

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/moco/lang"
	"github.com/ardnew/moco/log"
)

// session holds the functions defined so far. Later definitions replace
// earlier ones of the same name.
type session struct {
	fns       []*lang.Function
	maxPasses int
	logger    log.Logger
}

func newSession(logger log.Logger, maxPasses int) *session {
	return &session{maxPasses: maxPasses, logger: logger}
}

func (s *session) options() []lang.Option {
	return []lang.Option{
		lang.WithLogger(s.logger),
		lang.WithMaxPasses(s.maxPasses),
	}
}

// define adds fns to the session.
func (s *session) define(fns ...*lang.Function) {
	for _, fn := range fns {
		i := slices.IndexFunc(s.fns, func(f *lang.Function) bool {
			return f.Name == fn.Name
		})
		if i < 0 {
			s.fns = append(s.fns, fn)
		} else {
			s.fns[i] = fn
		}
	}
}

// lookup returns the function with the given name.
func (s *session) lookup(name string) (*lang.Function, bool) {
	i := slices.IndexFunc(s.fns, func(f *lang.Function) bool {
		return f.Name == name
	})
	if i < 0 {
		return nil, false
	}

	return s.fns[i], true
}

// names returns the names of every defined function.
func (s *session) names() []string {
	names := make([]string, len(s.fns))
	for i, fn := range s.fns {
		names[i] = fn.Name
	}

	return names
}

// load defines every function in src. Text outside definitions is ignored.
func (s *session) load(ctx context.Context, src string) int {
	fns, rest := lang.ExtractFunctions(ctx, lang.StripComments(src), s.options()...)
	s.define(fns...)

	if rest = strings.TrimSpace(rest); rest != "" {
		s.logger.DebugContext(ctx, "library text ignored",
			slog.Int("length", len(rest)))
	}

	return len(fns)
}

// source returns every definition, one per line.
func (s *session) source() string {
	var sb strings.Builder

	for _, fn := range s.fns {
		sb.WriteString(fn.String())
		sb.WriteByte('\n')
	}

	return sb.String()
}

// replace swaps every definition for those in src, which must hold nothing
// but definitions and comments.
func (s *session) replace(ctx context.Context, src string) error {
	fns, rest := lang.ExtractFunctions(ctx, lang.StripComments(src), s.options()...)
	if rest = strings.TrimSpace(rest); rest != "" {
		return fmt.Errorf("%w: %q", ErrStrayText, ellipsize(rest, 40))
	}

	s.fns = nil
	s.define(fns...)

	return nil
}

// eval defines the functions in input, then expands what remains. An export
// directive is shown resolved to its destination instead.
func (s *session) eval(ctx context.Context, input string) ([]string, error) {
	fns, rest := lang.ExtractFunctions(ctx, lang.StripComments(input), s.options()...)
	s.define(fns...)

	out := make([]string, 0, len(fns)+2)
	for _, fn := range fns {
		out = append(out, "defined "+fn.Signature())
	}

	rest = strings.TrimSpace(rest)

	switch {
	case rest == "":
		return out, nil

	case strings.HasPrefix(rest, "#"):
		exp, err := lang.ParseDirective(strings.TrimSuffix(rest, ";"))
		if err != nil {
			return out, err
		}

		return append(out, fmt.Sprintf("%s -> %s", exp.Destination(), exp.Component)), nil
	}

	res := lang.Inline(ctx, rest, s.fns, s.options()...)
	out = append(out, res.Text)

	if !res.Stable {
		out = append(out, fmt.Sprintf("(pass limit reached after %d passes)", res.Passes))
	}

	return out, nil
}

// ellipsize shortens s to at most n bytes.
func ellipsize(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n-3] + "..."
}
