package lang

import "strings"

// Expand replaces every call of fn in text with fn's body.
//
// A call is the function name, not preceded by an identifier byte, followed by
// optional whitespace and a balanced parenthesized argument list. Names inside
// string literals are never calls. A semicolon directly following the call is
// consumed, and every expansion ends with exactly one semicolon. If text holds
// no call, it is returned unchanged.
func (fn *Function) Expand(text string) string {
	if fn == nil || fn.Name == "" || !strings.Contains(text, fn.Name) {
		return text
	}

	var out strings.Builder

	out.Grow(len(text))

	for i := 0; i < len(text); {
		if literalAt(text, i) == literalString {
			end, ok := skipString(text, i)
			if !ok {
				end = i + 1
			}

			out.WriteString(text[i:end])
			i = end

			continue
		}

		end, ok := fn.callAt(text, i)
		if !ok {
			out.WriteByte(text[i])
			i++

			continue
		}

		out.WriteString(fn.expandCall(text[i:end]))
		i = end
	}

	return out.String()
}

// callAt reports whether a call of fn begins at text[i] and returns the index
// just past it, including a trailing semicolon.
func (fn *Function) callAt(text string, i int) (int, bool) {
	if !strings.HasPrefix(text[i:], fn.Name) {
		return 0, false
	}

	if i > 0 && isIdentifierContinue(text[i-1]) {
		return 0, false
	}

	open := skipSpaces(text, i+len(fn.Name))
	if open >= len(text) || text[open] != '(' {
		return 0, false
	}

	rparen, ok := matchDelim(text, open, true)
	if !ok {
		return 0, false
	}

	end := rparen + 1
	if semi := skipSpaces(text, end); semi < len(text) && text[semi] == ';' {
		end = semi + 1
	}

	return end, true
}

// expandCall returns the body of fn with arguments bound from call, which
// spans the function name through the closing parenthesis (and semicolon).
func (fn *Function) expandCall(call string) string {
	open := strings.IndexByte(call, '(')
	rparen, _ := matchDelim(call, open, true)

	args := Arguments(call[open+1 : rparen])
	bound := fn.Bind(args)

	body := strings.TrimSpace(substitute(fn.Body, bound))
	if !strings.HasSuffix(body, ";") {
		body += ";"
	}

	return body
}

// Arguments splits the raw text between a call's parentheses into trimmed
// argument expressions. A trailing empty argument is dropped, so an empty
// list has no arguments.
func Arguments(list string) []string {
	parts := splitTopLevel(list, ',')
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	return parts
}

// Bind resolves every parameter of fn against the positional arguments args.
//
// A parameter takes its argument if one was given, otherwise its default
// expression with earlier parameters substituted, otherwise the empty string.
// Extra arguments are ignored.
func (fn *Function) Bind(args []string) map[string]string {
	bound := make(map[string]string, len(fn.Params))

	for i, p := range fn.Params {
		switch {
		case i < len(args):
			bound[p.Name] = args[i]

		case p.HasDefault:
			bound[p.Name] = substitute(p.Default, bound)

		default:
			bound[p.Name] = ""
		}
	}

	return bound
}

// substitute replaces every free identifier of s found in values.
//
// All replacements happen in one pass, so replacement text is never itself
// substituted. Identifiers in strings and comments are untouched, as are
// property segments (identifiers whose preceding non-space byte is a dot).
func substitute(s string, values map[string]string) string {
	if len(values) == 0 {
		return s
	}

	var sb strings.Builder

	sb.Grow(len(s))

	for i := 0; i < len(s); {
		end, kind, ok := skipLiteral(s, i)

		switch c := s[i]; {
		case kind != literalNone:
			if !ok {
				end = i + 1
			}

			sb.WriteString(s[i:end])
			i = end

		case isIdentifierStart(c):
			end = scanIdentifier(s, i)
			name := s[i:end]

			if v, found := values[name]; found && prevNonSpace(s, i) != '.' {
				sb.WriteString(v)
			} else {
				sb.WriteString(name)
			}

			i = end

		case isIdentifierContinue(c):
			// Numeric literals such as 1e5 are not identifiers.
			end = scanIdentifier(s, i)
			sb.WriteString(s[i:end])
			i = end

		default:
			sb.WriteByte(c)
			i++
		}
	}

	return sb.String()
}
