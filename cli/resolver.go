package cli

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/moco/config"
	"github.com/ardnew/moco/log"
)

// configTag names the kong struct tag that binds a flag to a configuration
// key other than the one derived from its name.
const configTag = "config"

// load returns a [kong.ConfigurationLoader] reading configuration files in
// the given format.
//
// The file is flattened with [config.Flatten], so a setting is addressed by
// its key path joined with dashes:
//
//	{"log": {"level": "debug"}, "watch": {"debounce": "1s"}}
//
// supplies --log-level=debug to every command and --debounce=1s to the watch
// command. Command-line flags override configuration values. A file that
// cannot be decoded is ignored with a warning; commands that load it report
// the error.
func load(format config.Format) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		doc, err := config.Decode(format, data)
		if err != nil {
			log.Warn("configuration ignored",
				slog.String("format", format.String()),
				slog.String("error", err.Error()))

			return resolver{}, nil
		}

		return resolver(config.Flatten(doc)), nil
	}
}

// resolver implements [kong.Resolver] over a flattened configuration.
type resolver map[string]any

// Validate implements [kong.Resolver].
func (resolver) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. A flag is looked up by its config tag,
// then by its command name and flag name joined with a dash, then by its
// flag name alone.
func (r resolver) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	for _, key := range keys(parent, flag) {
		if value, ok := r[key]; ok {
			return scalar(value), nil
		}
	}

	return nil, nil //nolint:nilnil // no value lets kong apply the default
}

func keys(parent *kong.Path, flag *kong.Flag) []string {
	ks := make([]string, 0, 3)

	if flag.Tag != nil {
		if key := flag.Tag.Get(configTag); key != "" {
			ks = append(ks, key)
		}
	}

	if parent != nil && parent.Command != nil {
		ks = append(ks, parent.Command.Name+"-"+flag.Name)
	}

	return append(ks, flag.Name)
}

// scalar converts decoded numbers to strings, which kong parses into the
// flag's type.
func scalar(value any) any {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int:
		return strconv.Itoa(v)
	}

	return value
}
