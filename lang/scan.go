package lang

import "strings"

// Character classification

func isIdentifierStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentifierContinue(c byte) bool {
	return isIdentifierStart(c) || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}

	return false
}

func isHorizontalSpace(c byte) bool { return c == ' ' || c == '\t' }

// isIdentifier reports whether s is a single identifier token.
func isIdentifier(s string) bool {
	if s == "" || !isIdentifierStart(s[0]) {
		return false
	}

	for i := 1; i < len(s); i++ {
		if !isIdentifierContinue(s[i]) {
			return false
		}
	}

	return true
}

// skipSpaces returns the index of the first non-whitespace byte at or after i.
func skipSpaces(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}

	return i
}

// scanIdentifier returns the end of the identifier starting at i.
func scanIdentifier(s string, i int) int {
	for i < len(s) && isIdentifierContinue(s[i]) {
		i++
	}

	return i
}

// prevNonSpace returns the byte before i, ignoring whitespace, or 0.
func prevNonSpace(s string, i int) byte {
	for i--; i >= 0; i-- {
		if !isSpace(s[i]) {
			return s[i]
		}
	}

	return 0
}

// literal identifies the kind of region that begins at a position.
type literal int

const (
	literalNone literal = iota
	literalString
	literalLineComment
	literalBlockComment
)

// literalAt reports which kind of string or comment region begins at s[i].
func literalAt(s string, i int) literal {
	switch s[i] {
	case '\'', '"':
		return literalString

	case '/':
		if i+1 < len(s) {
			switch s[i+1] {
			case '/':
				return literalLineComment
			case '*':
				return literalBlockComment
			}
		}
	}

	return literalNone
}

// skipString returns the index just past the string literal whose opening
// quote is at s[i]. A backslash escapes the byte that follows it.
func skipString(s string, i int) (int, bool) {
	quote := s[i]

	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j + 1, true
		}
	}

	return len(s), false
}

// skipLineComment returns the index of the newline terminating the comment
// that starts at s[i], or len(s).
func skipLineComment(s string, i int) int {
	if n := strings.IndexByte(s[i:], '\n'); n >= 0 {
		return i + n
	}

	return len(s)
}

// skipBlockComment returns the index just past the "*/" closing the comment
// that starts at s[i]. Block comments do not nest.
func skipBlockComment(s string, i int) (int, bool) {
	if n := strings.Index(s[i+2:], "*/"); n >= 0 {
		return i + 2 + n + 2, true
	}

	return len(s), false
}

// skipLiteral reports whether a string or comment begins at s[i] and, if so,
// the index just past its end. ok is false if the region is unterminated.
func skipLiteral(s string, i int) (end int, kind literal, ok bool) {
	kind = literalAt(s, i)

	switch kind {
	case literalString:
		end, ok = skipString(s, i)

	case literalLineComment:
		end, ok = skipLineComment(s, i), true

	case literalBlockComment:
		end, ok = skipBlockComment(s, i)

	default:
		end, ok = i, true
	}

	return end, kind, ok
}

// closing returns the closing delimiter paired with open, or 0.
func closing(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '{':
		return '}'
	case '[':
		return ']'
	}

	return 0
}

// matchDelim returns the index of the delimiter that closes s[open].
//
// Only delimiters of the same kind affect the depth. If aware is set,
// delimiters inside strings and comments are ignored. ok is false if the text
// ends first, or if a string or comment is left unterminated.
func matchDelim(s string, open int, aware bool) (int, bool) {
	if open < 0 || open >= len(s) {
		return 0, false
	}

	o := s[open]
	c := closing(o)

	if c == 0 {
		return 0, false
	}

	depth := 0

	for i := open; i < len(s); i++ {
		if aware {
			if end, kind, ok := skipLiteral(s, i); kind != literalNone {
				if !ok {
					return 0, false
				}

				i = end - 1

				continue
			}
		}

		switch s[i] {
		case o:
			depth++

		case c:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return 0, false
}

// splitTopLevel splits s on every sep that is outside strings, comments and
// nested (), [] or {}. The separators are not included in the result.
func splitTopLevel(s string, sep byte) []string {
	var (
		parts []string
		depth int
		start int
	)

	for i := 0; i < len(s); i++ {
		if end, kind, _ := skipLiteral(s, i); kind != literalNone {
			i = end - 1

			continue
		}

		switch c := s[i]; {
		case c == '(' || c == '[' || c == '{':
			depth++

		case c == ')' || c == ']' || c == '}':
			if depth > 0 {
				depth--
			}

		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}

	return append(parts, s[start:])
}

// cutTopLevel slices s around the first top-level sep, like [strings.Cut].
func cutTopLevel(s string, sep byte) (before, after string, found bool) {
	parts := splitTopLevel(s, sep)
	if len(parts) == 1 {
		return s, "", false
	}

	return parts[0], s[len(parts[0])+1:], true
}

// StripComments removes block comments and then line comments from s. Comment
// markers inside string literals are preserved. Trailing horizontal whitespace
// left on each line is removed.
func StripComments(s string) string {
	s = stripLiterals(s, literalBlockComment)
	s = stripLiterals(s, literalLineComment)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	return strings.Join(lines, "\n")
}

// stripLiterals removes every comment of the given kind, copying strings and
// comments of the other kind verbatim. An unterminated block comment is kept.
func stripLiterals(s string, strip literal) string {
	var sb strings.Builder

	sb.Grow(len(s))

	for i := 0; i < len(s); {
		end, kind, ok := skipLiteral(s, i)

		switch {
		case kind == literalNone:
			sb.WriteByte(s[i])
			i++

		case kind == strip && ok:
			i = end

		case kind == literalLineComment && strip == literalBlockComment:
			// A block comment opener inside a line comment must not match.
			sb.WriteString(s[i:end])
			i = end

		case !ok:
			sb.WriteByte(s[i])
			i++

		default:
			sb.WriteString(s[i:end])
			i = end
		}
	}

	return sb.String()
}
