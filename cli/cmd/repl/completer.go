package repl

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// molangRoots are the query and variable namespaces of Molang, with their
// short aliases. The function keyword is offered alongside them.
var molangRoots = []string{
	"function",
	"math",
	"query", "q",
	"variable", "v",
	"temp", "t",
	"context", "c",
}

// wordDelimiters end a completion word: blanks, member access, and Molang
// operators and punctuation.
const wordDelimiters = " \t.()[]{}+-*/<>=!&|,?:;"

func isWordBoundary(r rune) bool { return strings.ContainsRune(wordDelimiters, r) }

// wordBounds returns the word around cursor and its byte offsets in input.
// The word is empty when the cursor sits between delimiters.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = strings.LastIndexFunc(input[:cursor], isWordBoundary) + 1

	end = len(input)
	if i := strings.IndexFunc(input[cursor:], isWordBoundary); i >= 0 {
		end = cursor + i
	}

	return input[start:end], start, end
}

// parentPath returns the member chain before the word at wordStart, such as
// "math" for the "cl" in "1 + math.cl", or "" for a word that is not a
// member.
func parentPath(input string, wordStart int) string {
	head := input[:wordStart]
	if !strings.HasSuffix(head, ".") {
		return ""
	}

	head = strings.TrimRight(head, ".")

	i := strings.LastIndexFunc(head, func(r rune) bool {
		return r != '.' && isWordBoundary(r)
	})

	return strings.TrimSpace(head[i+1:])
}

// candidates returns the completions valid below parent: the session's
// functions and the Molang roots at the top level, or the math functions
// after "math.".
func (s *session) candidates(parent string) []string {
	switch parent {
	case "":
		return append(s.names(), molangRoots...)
	case "math":
		return slices.Sorted(maps.Keys(mathFunctions))
	}

	return nil
}

// candidates ranks the completions of the word at the cursor and returns
// them with the word's offsets. The command name after the prefix completes
// against the commands. An empty word lists every member after a dot and
// every command after the prefix, but nothing at the top level, where the
// hint stays visible.
func (m model) candidates() (fuzzy.Matches, int, int) {
	input := m.input.Value()
	word, start, end := wordBounds(input, m.input.Position())

	var (
		choices []string
		listAll bool
	)

	switch {
	case isCommand(input):
		if start != strings.Index(input, commandPrefix)+len(commandPrefix) {
			return nil, start, end
		}

		choices, listAll = commandNames(), true

	default:
		parent := parentPath(input, start)
		choices, listAll = m.session.candidates(parent), parent != ""
	}

	if word != "" {
		return fuzzy.Find(word, choices), start, end
	}

	if !listAll {
		return nil, start, end
	}

	all := make(fuzzy.Matches, len(choices))
	for i, c := range choices {
		all[i] = fuzzy.Match{Str: c, Index: i}
	}

	return all, start, end
}

// renderCandidateBar renders matches on one line no wider than width,
// ending with an ellipsis when some do not fit. The candidate at selected is
// highlighted.
func renderCandidateBar(matches fuzzy.Matches, selected, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	more := sep + hintStyle.Render("...")

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		item := renderCandidate(match, i == selected)
		if i > 0 {
			item = sep + item
		}

		need := lipgloss.Width(item)
		if i < len(matches)-1 {
			need += lipgloss.Width(more)
		}

		if i > 0 && used+need > width {
			b.WriteString(more)

			break
		}

		b.WriteString(item)

		used += lipgloss.Width(item)
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters in bold.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	return lipgloss.StyleRunes(match.Str, match.MatchedIndexes, highlight, base)
}
