package lang

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// directive matches one export statement after whitespace collapsing.
var directive = regexp.MustCompile(`^#export\s+([^(]+)\(\s*([^)]+)\s*\)$`)

// Export is an export directive: the expanded content of its unit is stored
// at key path Component of the JSON document at Path.
type Export struct {
	// Path is the destination file relative to a pack root, slash-separated
	// and without the .json extension.
	Path string `json:"path" yaml:"path"`

	// Component is a slash-separated key path inside the destination.
	Component string `json:"component" yaml:"component"`
}

// Destination returns the destination file name relative to a pack root.
func (e Export) Destination() string { return e.Path + ".json" }

// Keys returns the key path segments of Component.
func (e Export) Keys() []string {
	return strings.FieldsFunc(e.Component, func(r rune) bool { return r == '/' })
}

// String returns the directive in source form.
func (e Export) String() string {
	return "#export " + e.Path + "(" + e.Component + ")"
}

// ParseDirective parses a single export statement.
func ParseDirective(stmt string) (Export, error) {
	m := directive.FindStringSubmatch(strings.TrimSpace(stmt))
	if m == nil {
		return Export{}, ErrInvalidDirective.With(slog.String("statement", stmt))
	}

	return Export{
		Path:      slashed(m[1]),
		Component: slashed(m[2]),
	}, nil
}

func slashed(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `\`, "/"))
}

// Unit is one parsed script: its export directives and its expanded content.
type Unit struct {
	Exports   []Export    `json:"exports"             yaml:"exports"`
	Content   string      `json:"content"             yaml:"content"`
	Functions []*Function `json:"functions,omitempty" yaml:"functions,omitempty"`

	// Passes and Stable report the expansion outcome. A unit without
	// functions is stable after zero passes.
	Passes int  `json:"passes" yaml:"passes"`
	Stable bool `json:"stable" yaml:"stable"`
}

// ParseUnit parses the source text of one script.
//
// Comments are removed and function definitions extracted. The remaining text
// is split into statements on semicolons outside strings. Statements starting
// with '#' must be export directives; any other statement is content. Content
// statements are joined, each terminated by a semicolon, and every function
// call in them is expanded.
//
// A unit with no statements yields [ErrEmptyUnit]. A unit with no export
// directives yields [ErrNoExports] unless [WithoutExports] is given. A
// malformed directive yields [ErrInvalidDirective].
func ParseUnit(ctx context.Context, src string, opts ...Option) (*Unit, error) {
	o := makeOptions(opts...)

	o.logger.TraceContext(ctx, "parse start", slog.Int("source_length", len(src)))

	fns, rest := ExtractFunctions(ctx, StripComments(src), opts...)

	rest = collapseSpace(rest)
	if rest == "" {
		return nil, ErrEmptyUnit
	}

	unit := &Unit{Functions: fns, Stable: true}

	var content []string

	for _, stmt := range splitStatements(rest) {
		stmt = strings.TrimSpace(stmt)

		switch {
		case stmt == "":
			continue

		case strings.HasPrefix(stmt, "#"):
			exp, err := ParseDirective(stmt)
			if err != nil {
				return nil, err
			}

			unit.Exports = append(unit.Exports, exp)

		default:
			content = append(content, stmt+";")
		}
	}

	if len(unit.Exports) == 0 && !o.lenient {
		return nil, ErrNoExports
	}

	unit.Content = strings.Join(content, " ")

	if len(fns) > 0 {
		res := Inline(ctx, unit.Content, fns, opts...)
		unit.Content, unit.Passes, unit.Stable = res.Text, res.Passes, res.Stable
	}

	o.logger.DebugContext(ctx, "unit parsed",
		slog.Int("exports", len(unit.Exports)),
		slog.Int("functions", len(fns)),
		slog.Int("passes", unit.Passes))

	return unit, nil
}

// ParseReader reads r to the end and parses the result with [ParseUnit].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Unit, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return ParseUnit(ctx, string(data), opts...)
}
