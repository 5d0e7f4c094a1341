package discover

import (
	"fmt"
	"path"

	"github.com/gobwas/glob"
)

// Matcher selects source files by glob patterns.
//
// A pattern is matched against both the slash-separated path relative to the
// source directory and its base name, so "*.molang" selects files at any
// depth while "mobs/*.molang" selects only the direct children of mobs.
type Matcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewMatcher compiles the include and exclude patterns.
func NewMatcher(include, exclude []string) (*Matcher, error) {
	var (
		m   Matcher
		err error
	)

	if m.include, err = compile(include); err != nil {
		return nil, err
	}

	if m.exclude, err = compile(exclude); err != nil {
		return nil, err
	}

	return &m, nil
}

func compile(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))

	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrPattern, p, err)
		}

		globs = append(globs, g)
	}

	return globs, nil
}

// Match reports whether the file at the slash-separated relative path rel is
// included and not excluded.
func (m *Matcher) Match(rel string) bool {
	return matchAny(m.include, rel) && !matchAny(m.exclude, rel)
}

func matchAny(globs []glob.Glob, rel string) bool {
	base := path.Base(rel)

	for _, g := range globs {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}

	return false
}
