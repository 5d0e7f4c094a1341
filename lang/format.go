package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Normalize tidies expanded expression text.
//
// Outside string literals, each run of spaces and tabs becomes one space, a
// semicolon loses the whitespace before it and is followed by exactly one
// space, and the result is trimmed so that it ends in a bare semicolon.
// Normalize is idempotent.
func Normalize(s string) string {
	var (
		sb, ws    strings.Builder
		afterSemi bool
	)

	sb.Grow(len(s))

	// flush writes the whitespace that separates the previous token from the
	// next one.
	flush := func() {
		if afterSemi {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(ws.String())
		}

		ws.Reset()

		afterSemi = false
	}

	for i := 0; i < len(s); {
		c := s[i]

		switch {
		case isHorizontalSpace(c):
			if w := ws.String(); w == "" || w[len(w)-1] != ' ' {
				ws.WriteByte(' ')
			}

			i++

		case isSpace(c):
			ws.WriteByte(c)
			i++

		case c == ';':
			if afterSemi {
				sb.WriteByte(' ')
			}

			ws.Reset()
			sb.WriteByte(';')

			afterSemi = true
			i++

		case literalAt(s, i) == literalString:
			end, ok := skipString(s, i)
			if !ok {
				end = i + 1
			}

			flush()
			sb.WriteString(s[i:end])
			i = end

		default:
			flush()
			sb.WriteByte(c)
			i++
		}
	}

	return strings.TrimSpace(sb.String())
}

// collapseSpace replaces every whitespace run outside string literals with a
// single space and trims the result.
func collapseSpace(s string) string {
	var sb strings.Builder

	sb.Grow(len(s))

	for i := 0; i < len(s); {
		switch {
		case isSpace(s[i]):
			sb.WriteByte(' ')
			i = skipSpaces(s, i)

		case literalAt(s, i) == literalString:
			end, ok := skipString(s, i)
			if !ok {
				end = i + 1
			}

			sb.WriteString(s[i:end])
			i = end

		default:
			sb.WriteByte(s[i])
			i++
		}
	}

	return strings.TrimSpace(sb.String())
}

// splitStatements splits s on every semicolon outside string literals.
func splitStatements(s string) []string {
	var (
		stmts []string
		start int
	)

	for i := 0; i < len(s); i++ {
		switch {
		case literalAt(s, i) == literalString:
			if end, ok := skipString(s, i); ok {
				i = end - 1
			}

		case s[i] == ';':
			stmts = append(stmts, s[start:i])
			start = i + 1
		}
	}

	return append(stmts, s[start:])
}

// Format writes the unit in source form: one directive per line followed by
// the expanded content.
func (u *Unit) Format(_ context.Context, w io.Writer) error {
	for _, exp := range u.Exports {
		if _, err := fmt.Fprintln(w, exp.String()); err != nil {
			return err
		}
	}

	if u.Content == "" {
		return nil
	}

	_, err := fmt.Fprintln(w, u.Content)

	return err
}

// FormatJSON writes the unit as JSON to the writer.
func (u *Unit) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(u, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(u)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the unit as YAML to the writer.
func (u *Unit) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, u, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}
