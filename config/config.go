package config

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// FileName is the base name of a project configuration file.
const FileName = "moco_config"

// Format identifies the encoding of a configuration file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatTOML
)

// extensions maps each recognized file extension to its format, in lookup
// order.
var extensions = []struct {
	ext    string
	format Format
}{
	{".json", FormatJSON},
	{".yaml", FormatYAML},
	{".yml", FormatYAML},
	{".toml", FormatTOML},
}

// FormatOf returns the format selected by the extension of path.
func FormatOf(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))

	for _, e := range extensions {
		if e.ext == ext {
			return e.format, nil
		}
	}

	return 0, ErrFormat.With(slog.String("path", path))
}

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	}

	return "unknown"
}

// Candidates returns every configuration file name recognized in dir, in
// lookup order.
func Candidates(dir string) []string {
	paths := make([]string, len(extensions))
	for i, e := range extensions {
		paths[i] = filepath.Join(dir, FileName+e.ext)
	}

	return paths
}

// Find returns the first configuration file that exists in dir.
func Find(dir string) (string, bool) {
	for _, path := range Candidates(dir) {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}

	return "", false
}

// Ext returns the preferred file extension of the format.
func (f Format) Ext() string {
	for _, e := range extensions {
		if e.format == f {
			return e.ext
		}
	}

	return ""
}

// ParseFormat returns the format named by s, as returned by [Format.String].
func ParseFormat(s string) (Format, error) {
	for _, f := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		if strings.EqualFold(s, f.String()) {
			return f, nil
		}
	}

	return 0, ErrFormat.With(slog.String("format", s))
}

// Config is a validated project configuration.
type Config struct {
	Packs  Packs  `json:"packs"  toml:"packs"  yaml:"packs"`
	Source Source `json:"source" toml:"source" yaml:"source"`
	Output Output `json:"output" toml:"output" yaml:"output"`
	Expand Expand `json:"expand" toml:"expand" yaml:"expand"`
	Watch  Watch  `json:"watch"  toml:"watch"  yaml:"watch"`
	Log    Log    `json:"log"    toml:"log"    yaml:"log"`

	// Path is the file the configuration was loaded from. It is empty for the
	// default configuration.
	Path string `json:"-" toml:"-" yaml:"-"`
}

// Packs holds the pack root directories.
type Packs struct {
	BehaviorPack string `json:"behaviorPack" toml:"behaviorPack" yaml:"behaviorPack"`
	ResourcePack string `json:"resourcePack" toml:"resourcePack" yaml:"resourcePack"`
}

// Pack is one pack root with a short name used in diagnostics.
type Pack struct {
	Name string
	Root string
}

// List returns the configured packs, skipping those with an empty root.
func (p Packs) List() []Pack {
	packs := make([]Pack, 0, 2)

	if p.BehaviorPack != "" {
		packs = append(packs, Pack{Name: "BP", Root: p.BehaviorPack})
	}

	if p.ResourcePack != "" {
		packs = append(packs, Pack{Name: "RP", Root: p.ResourcePack})
	}

	return packs
}

// Source selects the script files discovered in each pack.
type Source struct {
	Directory string   `json:"directory" toml:"directory" yaml:"directory"`
	Include   []string `json:"include"   toml:"include"   yaml:"include"`
	Exclude   []string `json:"exclude"   toml:"exclude"   yaml:"exclude"`
}

// Output controls how modified documents are written.
type Output struct {
	Indent int `json:"indent" toml:"indent" yaml:"indent"`
}

// Expand controls function expansion.
type Expand struct {
	MaxPasses int `json:"maxPasses" toml:"maxPasses" yaml:"maxPasses"`
}

// Watch controls watch mode.
type Watch struct {
	Debounce string `json:"debounce" toml:"debounce" yaml:"debounce"`
}

// defaultDebounce is used if the debounce setting cannot be parsed.
const defaultDebounce = 500 * time.Millisecond

// Interval returns the debounce setting as a duration.
func (w Watch) Interval() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return defaultDebounce
	}

	return d
}

// Log holds logger settings. The same keys supply defaults for the
// corresponding command-line flags.
type Log struct {
	Level  string `json:"level"  toml:"level"  yaml:"level"`
	Format string `json:"format" toml:"format" yaml:"format"`
	Pretty bool   `json:"pretty" toml:"pretty" yaml:"pretty"`
	Caller bool   `json:"caller" toml:"caller" yaml:"caller"`
}

// New returns the default configuration. Relative paths resolve against dir,
// or are kept as written if dir is empty.
func New(dir string) *Config {
	cfg, err := build(Default(), dir)
	if err != nil {
		panic("internal error: invalid default configuration: " + err.Error())
	}

	return cfg
}

// Load reads, validates and returns the configuration file at path. Settings
// missing from the file take their default values, and relative pack roots
// resolve against the directory containing the file.
func Load(path string) (*Config, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc = merge(Default(), doc)

	if err := Validate(doc); err != nil {
		return nil, ErrLoad.With(slog.String("path", path)).Wrap(err)
	}

	cfg, err := build(doc, filepath.Dir(path))
	if err != nil {
		return nil, ErrLoad.With(slog.String("path", path)).Wrap(err)
	}

	cfg.Path = path

	return cfg, nil
}

// ReadFile decodes the configuration file at path without validating it.
func ReadFile(path string) (map[string]any, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, ErrLoad.Wrap(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrLoad.With(slog.String("path", path)).Wrap(err)
	}

	doc, err := Decode(format, data)
	if err != nil {
		return nil, ErrLoad.With(slog.String("path", path)).Wrap(err)
	}

	return doc, nil
}

// Decode parses data in the given format into a configuration document.
func Decode(format Format, data []byte) (map[string]any, error) {
	doc := make(map[string]any)

	var err error

	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)

	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)

	case FormatTOML:
		_, err = toml.Decode(string(data), &doc)

	default:
		return nil, ErrFormat.With(slog.String("format", format.String()))
	}

	if err != nil {
		return nil, err
	}

	if doc == nil {
		doc = make(map[string]any)
	}

	return doc, nil
}

// Encode writes cfg to w in the given format with the given indentation.
func (c *Config) Encode(w io.Writer, format Format, indent int) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(c, "", strings.Repeat(" ", indent))
		data = append(data, '\n')

	case FormatYAML:
		data, err = yaml.MarshalWithOptions(c, yaml.Indent(max(indent, 1)))

	case FormatTOML:
		var buf bytes.Buffer

		enc := toml.NewEncoder(&buf)
		enc.Indent = strings.Repeat(" ", indent)
		err = enc.Encode(c)
		data = buf.Bytes()

	default:
		return ErrFormat.With(slog.String("format", format.String()))
	}

	if err != nil {
		return ErrEncode.With(slog.String("format", format.String())).Wrap(err)
	}

	if _, err := w.Write(data); err != nil {
		return ErrEncode.With(slog.String("format", format.String())).Wrap(err)
	}

	return nil
}

// Flatten returns the leaves of doc keyed by their path, with segments joined
// by "-" and camel case converted to kebab case: {"log":{"level":...}} yields
// "log-level".
func Flatten(doc map[string]any) map[string]any {
	flat := make(map[string]any)
	flatten(flat, "", doc)

	return flat
}

func flatten(dst map[string]any, prefix string, doc map[string]any) {
	for key, value := range doc {
		name := kebab(key)
		if prefix != "" {
			name = prefix + "-" + name
		}

		if obj, ok := value.(map[string]any); ok {
			flatten(dst, name, obj)

			continue
		}

		dst[name] = value
	}
}

func kebab(s string) string {
	var sb strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				sb.WriteByte('-')
			}

			c += 'a' - 'A'
		}

		sb.WriteByte(c)
	}

	return sb.String()
}

// build converts a validated document into a Config.
func build(doc map[string]any, dir string) (*Config, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Packs.BehaviorPack = resolve(dir, cfg.Packs.BehaviorPack)
	cfg.Packs.ResourcePack = resolve(dir, cfg.Packs.ResourcePack)

	return &cfg, nil
}

func resolve(dir, path string) string {
	if path == "" || dir == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(dir, path)
}
