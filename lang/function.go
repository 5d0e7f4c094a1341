package lang

import (
	"context"
	"log/slog"
	"strings"
)

// keyword introduces a function definition.
const keyword = "function"

// Param is one formal parameter of a [Function].
type Param struct {
	Name string `json:"name" yaml:"name"`

	// Default is the raw default expression, valid only if HasDefault is set.
	Default    string `json:"default,omitempty" yaml:"default,omitempty"`
	HasDefault bool   `json:"-"                 yaml:"-"`
}

// String returns the parameter as it would appear in a definition.
func (p Param) String() string {
	if p.HasDefault {
		return p.Name + " = " + p.Default
	}

	return p.Name
}

// Function is a user-defined function extracted from a unit.
type Function struct {
	Name   string  `json:"name"   yaml:"name"`
	Params []Param `json:"params" yaml:"params"`
	Body   string  `json:"body"   yaml:"body"`
}

// Signature returns the function name followed by its parameter list.
func (fn *Function) Signature() string {
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.String()
	}

	return fn.Name + "(" + strings.Join(names, ", ") + ")"
}

// String returns the function as a definition that [ExtractFunctions]
// accepts.
func (fn *Function) String() string {
	return keyword + " " + fn.Signature() + " { " + fn.Body + " }"
}

// ExtractFunctions removes every well-formed function definition from src.
//
// It returns the definitions in declaration order and the remaining text.
// Malformed definitions are not errors: the keyword is kept as plain text and
// scanning resumes right after it.
func ExtractFunctions(
	ctx context.Context,
	src string,
	opts ...Option,
) ([]*Function, string) {
	o := makeOptions(opts...)

	var (
		fns []*Function
		out strings.Builder
	)

	out.Grow(len(src))

	for i := 0; i < len(src); {
		if !hasKeywordAt(src, i) {
			out.WriteByte(src[i])
			i++

			continue
		}

		fn, end, ok := o.extractAt(ctx, src, i)
		if !ok {
			o.logger.TraceContext(ctx, "function keyword not a definition",
				slog.Int("offset", i))
			out.WriteString(keyword)

			i += len(keyword)

			continue
		}

		o.logger.DebugContext(ctx, "function extracted",
			slog.String("name", fn.Name),
			slog.Int("params", len(fn.Params)))

		fns = append(fns, fn)
		i = end
	}

	return fns, out.String()
}

// hasKeywordAt reports whether the function keyword begins at s[i] as a whole
// word.
func hasKeywordAt(s string, i int) bool {
	if !strings.HasPrefix(s[i:], keyword) {
		return false
	}

	if i > 0 && isIdentifierContinue(s[i-1]) {
		return false
	}

	next := i + len(keyword)

	return next >= len(s) || !isIdentifierContinue(s[next])
}

// extractAt parses the definition whose keyword begins at s[i]. It returns the
// index just past the closing brace of the body.
func (o options) extractAt(
	ctx context.Context,
	s string,
	i int,
) (*Function, int, bool) {
	j := skipSpaces(s, i+len(keyword))
	if j >= len(s) || !isIdentifierStart(s[j]) {
		return nil, 0, false
	}

	nameEnd := scanIdentifier(s, j)
	name := s[j:nameEnd]

	open := skipSpaces(s, nameEnd)
	if open >= len(s) || s[open] != '(' {
		return nil, 0, false
	}

	rparen, ok := matchDelim(s, open, true)
	if !ok {
		return nil, 0, false
	}

	brace := skipSpaces(s, rparen+1)
	if brace >= len(s) || s[brace] != '{' {
		return nil, 0, false
	}

	// Function bodies are matched on brace depth alone.
	end, ok := matchDelim(s, brace, false)
	if !ok {
		return nil, 0, false
	}

	fn := &Function{
		Name:   name,
		Params: o.parseParams(ctx, name, s[open+1:rparen]),
		Body:   strings.TrimSpace(s[brace+1 : end]),
	}

	return fn, end + 1, true
}

// parseParams parses a comma-separated parameter list. Invalid or duplicate
// parameters are dropped.
func (o options) parseParams(ctx context.Context, fn, list string) []Param {
	var params []Param

	seen := make(map[string]struct{})

	for _, item := range splitTopLevel(list, ',') {
		if strings.TrimSpace(item) == "" {
			continue
		}

		lhs, rhs, hasDefault := cutTopLevel(item, '=')
		name := strings.TrimSpace(lhs)

		if !isIdentifier(name) {
			o.logger.DebugContext(ctx, "invalid parameter ignored",
				slog.String("function", fn),
				slog.String("parameter", strings.TrimSpace(item)))

			continue
		}

		if _, dup := seen[name]; dup {
			o.logger.DebugContext(ctx, "duplicate parameter ignored",
				slog.String("function", fn),
				slog.String("parameter", name))

			continue
		}

		seen[name] = struct{}{}

		params = append(params, Param{
			Name:       name,
			Default:    strings.TrimSpace(rhs),
			HasDefault: hasDefault,
		})
	}

	return params
}
