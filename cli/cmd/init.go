package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/moco/config"
	"github.com/ardnew/moco/log"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init writes a project configuration file holding every default setting.
type Init struct {
	Force  bool   `help:"Overwrite existing configuration file" short:"f"`
	Format string `help:"Configuration file format; defaults to the --config extension, else json" enum:",json,yaml,toml" default:"" short:"F"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath, format, err := i.target(ctx)
	if err != nil {
		return ErrWriteConfig.Wrap(err)
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	// Paths are written as the defaults spell them, relative to the file.
	err = config.New("").Encode(file, format, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.InfoContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.String("format", format.String()))

	return nil
}

// target returns the path and format of the file to write. An explicit
// format places the file in the project directory; otherwise the configured
// path is used, or a JSON file in the project directory.
func (i *Init) target(ctx context.Context) (string, config.Format, error) {
	if i.Format != "" {
		format, err := config.ParseFormat(i.Format)
		if err != nil {
			return "", 0, err
		}

		return filepath.Join(workdir(ctx), config.FileName+format.Ext()), format, nil
	}

	if path := vars(ctx)[ConfigIdentifier]; path != "" {
		format, err := config.FormatOf(path)

		return path, format, err
	}

	return filepath.Join(workdir(ctx), config.FileName+config.FormatJSON.Ext()),
		config.FormatJSON, nil
}
