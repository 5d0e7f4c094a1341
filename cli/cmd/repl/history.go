package repl

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

// maxHistory is the number of lines kept.
const maxHistory = 1000

// History is the list of submitted lines, oldest first, mirrored to a file
// when it has a path. Submitting a line again moves it to the end.
type History struct {
	path  string
	lines []string
	mu    sync.RWMutex
}

// NewHistory returns an empty History backed by the file at path. An empty
// path keeps the history in memory only.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the lines with those in the history file. A missing file is
// an empty history.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	data, err := os.ReadFile(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.lines = h.lines[:0]

	for line := range strings.Lines(string(data)) {
		h.push(strings.TrimSpace(line))
	}

	return nil
}

// Add appends line and saves the history.
func (h *History) Add(line string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.push(strings.TrimSpace(line)) || h.path == "" {
		return nil
	}

	return os.WriteFile(h.path, []byte(strings.Join(h.lines, "\n")+"\n"), 0o600)
}

// push appends line, dropping an earlier copy and the oldest lines beyond
// [maxHistory]. It reports whether the lines changed.
func (h *History) push(line string) bool {
	if line == "" {
		return false
	}

	if n := len(h.lines); n > 0 && h.lines[n-1] == line {
		return false
	}

	h.lines = slices.DeleteFunc(h.lines, func(s string) bool { return s == line })
	h.lines = append(h.lines, line)

	if over := len(h.lines) - maxHistory; over > 0 {
		h.lines = slices.Delete(h.lines, 0, over)
	}

	return true
}

// Entry returns the line at index i, oldest first.
func (h *History) Entry(i int) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.lines) {
		return "", ErrOutOfBounds
	}

	return h.lines[i], nil
}

// Len returns the number of lines.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.lines)
}

// Lines returns a copy of every line, oldest first.
func (h *History) Lines() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.lines)
}
