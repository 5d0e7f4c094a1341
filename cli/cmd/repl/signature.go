package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/moco/lang"
)

// mathFunctions are the parameter lists of the Molang math functions.
var mathFunctions = map[string][]string{
	"abs":              {"value"},
	"acos":             {"value"},
	"asin":             {"value"},
	"atan":             {"value"},
	"atan2":            {"y", "x"},
	"ceil":             {"value"},
	"clamp":            {"value", "min", "max"},
	"cos":              {"value"},
	"die_roll":         {"num", "low", "high"},
	"die_roll_integer": {"num", "low", "high"},
	"exp":              {"value"},
	"floor":            {"value"},
	"hermite_blend":    {"value"},
	"lerp":             {"start", "end", "t"},
	"lerprotate":       {"start", "end", "t"},
	"ln":               {"value"},
	"max":              {"a", "b"},
	"min":              {"a", "b"},
	"min_angle":        {"value"},
	"mod":              {"value", "denominator"},
	"pi":               {},
	"pow":              {"base", "exponent"},
	"random":           {"low", "high"},
	"random_integer":   {"low", "high"},
	"round":            {"value"},
	"sin":              {"value"},
	"sqrt":             {"value"},
	"trunc":            {"value"},
}

// Styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is a call whose argument list contains the cursor.
type functionCall struct {
	name     string // callee, possibly dotted (e.g., "math.clamp")
	argIndex int    // argument under the cursor, 0-based
	inCall   bool
}

// detectFunctionCall finds the innermost open call before cursor and the
// index of the argument being typed.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	open := -1

	for i, depth := cursor-1, 0; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')', ']', '}':
			depth++
		case '(', '[', '{':
			if depth == 0 {
				if input[i] != '(' {
					return functionCall{}
				}

				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open
	for start > 0 && isCalleeByte(input[start-1]) {
		start--
	}

	name := input[start:open]
	if name == "" || strings.HasPrefix(name, ".") {
		return functionCall{}
	}

	argIndex := 0

	for i, depth := open+1, 0; i < cursor; i++ {
		switch input[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

func isCalleeByte(c byte) bool {
	return c == '.' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// signature returns the display name and parameters of the named function,
// looking first in the session and then among the math functions.
func (s *session) signature(name string) (string, []string, bool) {
	if fn, ok := s.lookup(name); ok {
		params := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = p.String()
		}

		return fn.Name, params, true
	}

	if short, ok := strings.CutPrefix(name, "math."); ok {
		if params, ok := mathFunctions[short]; ok {
			return name, params, true
		}
	}

	return "", nil, false
}

// renderSignatureHint renders name(params...) with the parameter at argIdx
// highlighted. Arguments beyond the last parameter highlight nothing.
func renderSignatureHint(name string, params []string, argIdx int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == argIdx {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}

// listing renders every session function as a name and its body preview.
func (s *session) listing() string {
	if len(s.fns) == 0 {
		return hintStyle.Render("  (no functions defined)")
	}

	var b strings.Builder

	for i, fn := range s.fns {
		if i > 0 {
			b.WriteByte('\n')
		}

		b.WriteString("  ")
		b.WriteString(signatureNameStyle.Render(fn.Signature()))
		b.WriteByte(' ')
		b.WriteString(hintStyle.Render(preview(fn)))
	}

	return b.String()
}

func preview(fn *lang.Function) string {
	return "{ " + ellipsize(fn.Body, 40) + " }"
}
