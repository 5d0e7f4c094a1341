// Package document reads, edits and writes the JSON documents of a pack.
//
// Values are addressed by key paths, one segment per level. A numeric segment
// indexes an array. Edits touch only the addressed value, so key order and
// unrelated content of a document are preserved.
package document

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/ardnew/moco/lang"
)

// Document is one JSON document loaded in memory.
type Document struct {
	path     string
	data     []byte
	modified bool
}

// Read loads the document at path. Comments are permitted and discarded.
//
// A missing file is reported as [ErrNotFound], any other failure as
// [ErrRead].
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound.With(slog.String("path", path))
	}

	if err != nil {
		return nil, ErrRead.With(slog.String("path", path)).Wrap(err)
	}

	doc, err := Parse(path, data)
	if err != nil {
		return nil, ErrRead.With(slog.String("path", path)).Wrap(err)
	}

	return doc, nil
}

// Parse returns the document with the given content. Comments and trailing
// commas are removed. The path is used only by [Document.Write].
func Parse(path string, data []byte) (*Document, error) {
	text := stripTrailingCommas(lang.StripComments(string(data)))

	if !gjson.Valid(text) {
		return nil, ErrInvalidJSON
	}

	return &Document{path: path, data: []byte(text)}, nil
}

// Path returns the file the document was read from.
func (d *Document) Path() string { return d.path }

// Modified reports whether [Document.Set] changed the document.
func (d *Document) Modified() bool { return d.modified }

// Has reports whether the value at the key path exists.
func (d *Document) Has(keys ...string) bool {
	return len(keys) > 0 && gjson.GetBytes(d.data, query(keys)).Exists()
}

// Get returns the raw JSON text of the value at the key path.
func (d *Document) Get(keys ...string) (string, bool) {
	if len(keys) == 0 {
		return "", false
	}

	r := gjson.GetBytes(d.data, query(keys))

	return r.Raw, r.Exists()
}

// Set replaces the existing value at the key path with the string value.
// A key path that does not exist is reported as [ErrMissingComponent].
func (d *Document) Set(value string, keys ...string) error {
	if !d.Has(keys...) {
		return ErrMissingComponent.With(
			slog.String("path", d.path),
			slog.String("component", strings.Join(keys, "/")),
		)
	}

	q := query(keys)
	if r := gjson.GetBytes(d.data, q); r.Type == gjson.String && r.Str == value {
		return nil
	}

	data, err := sjson.SetBytes(d.data, q, value)
	if err != nil {
		return ErrWrite.With(
			slog.String("path", d.path),
			slog.String("component", strings.Join(keys, "/")),
		).Wrap(err)
	}

	d.data = data
	d.modified = true

	return nil
}

// Bytes returns the document formatted with one element per line, each
// nesting level indented by the given number of spaces. A non-positive
// indent yields compact output.
func (d *Document) Bytes(indent int) []byte {
	if indent <= 0 {
		return pretty.Ugly(d.data)
	}

	return pretty.PrettyOptions(d.data, &pretty.Options{
		Indent: strings.Repeat(" ", indent),
	})
}

// Write formats the document with [Document.Bytes] and replaces the file it
// was read from.
func (d *Document) Write(indent int) error {
	info, err := os.Stat(d.path)

	perm := fs.FileMode(0o644)
	if err == nil {
		perm = info.Mode().Perm()
	}

	if err := os.WriteFile(d.path, d.Bytes(indent), perm); err != nil {
		return ErrWrite.With(slog.String("path", d.path)).Wrap(err)
	}

	d.modified = false

	return nil
}

// query converts key path segments to a gjson path.
func query(keys []string) string {
	escaped := make([]string, len(keys))
	for i, k := range keys {
		escaped[i] = gjson.Escape(k)
	}

	return strings.Join(escaped, ".")
}

// stripTrailingCommas removes each comma outside a string that is followed,
// after whitespace, by a closing brace or bracket.
func stripTrailingCommas(s string) string {
	var (
		sb       strings.Builder
		inString bool
		escaped  bool
	)

	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case inString:
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}

		case c == '"':
			inString = true

		case c == ',':
			j := i + 1
			for j < len(s) && strings.IndexByte(" \t\r\n", s[j]) >= 0 {
				j++
			}

			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}

		sb.WriteByte(c)
	}

	return sb.String()
}
