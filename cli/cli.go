package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/moco/cli/cmd"
	"github.com/ardnew/moco/config"
	"github.com/ardnew/moco/lang"
	"github.com/ardnew/moco/log"
	"github.com/ardnew/moco/pkg"
)

// CLI is the top-level command-line interface for moco.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Config  string           `help:"Project configuration file (default: ${configDefault} in the working directory)" placeholder:"FILE" type:"path"`
	Library []string         `help:"Script file(s) whose functions are available to expand and repl"                  short:"l"         type:"existingfile"`
	Version kong.VersionFlag `help:"Print version and exit"                                                          short:"V"`

	Init   cmd.Init    `cmd:"" help:"Write a configuration file holding the default settings"`
	Run    cmd.Compile `cmd:"" default:"1" help:"Expand every script and inject the results into the pack documents"`
	Check  cmd.Check   `cmd:"" help:"Validate every script and directive without writing"`
	Plan   cmd.Plan    `cmd:"" help:"Print what run would write"`
	Expand cmd.Expand  `cmd:"" help:"Print the expanded form of a script"`
	Watch  cmd.Watch   `cmd:"" help:"Run whenever a script changes"`
	Repl   cmd.Repl    `cmd:"" help:"Interactively define functions and expand expressions"`
}

// Run parses args and runs the selected command. Kong calls exit after
// printing help or the version.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := pkg.MkdirAll(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logging flags and the project file must be known before parsing: the
	// first so parse errors are logged as requested, the second because it
	// selects the configuration resolvers.
	cli.Log.scan(args)

	project, workdir := locate(args)

	vars := kong.Vars{
		cmd.ConfigIdentifier:  project,
		cmd.WorkdirIdentifier: workdir,
		cmd.CacheIdentifier:   pkg.CacheDir(),
		"configDefault":       config.FileName + ".{json,yaml,yml,toml}",
		"maxPasses":           strconv.Itoa(lang.DefaultMaxPasses),
		"version":             strings.TrimSpace(pkg.Version),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	opts := []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		vars,
	}

	// User settings first, so the project file overrides them.
	paths := config.Candidates(pkg.ConfigDir())
	if project != "" {
		paths = append(paths, project)
	}

	opts = append(opts, configurations(paths...)...)

	parser, err := kong.New(&cli, opts...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Library)

	defer cli.Log.start(ctx)()
	defer cli.Pprof.start(ctx)()

	log.DebugContext(ctx, "command selected",
		slog.String("command", ktx.Command()),
		slog.String("config", project),
		slog.String("workdir", workdir))

	return ktx.Run(ctx, &cli)
}

// locate returns the project configuration file and project directory. A
// --config flag names the file and its directory is the project; otherwise
// the working directory is the project and the file is the first
// configuration found there, if any.
func locate(args []string) (project, workdir string) {
	workdir, err := os.Getwd()
	if err != nil {
		workdir = "."
	}

	if path, ok := scanArgs(args, []string{"config"}, nil)["config"]; ok && path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}

		return path, filepath.Dir(path)
	}

	if path, ok := config.Find(workdir); ok {
		return path, workdir
	}

	return "", workdir
}

// configurations returns a kong configuration option for each path whose
// extension names a known format. Missing files are skipped by kong.
func configurations(paths ...string) []kong.Option {
	opts := make([]kong.Option, 0, len(paths))

	for _, path := range paths {
		format, err := config.FormatOf(path)
		if err != nil {
			log.Warn("configuration ignored",
				slog.String("path", path),
				slog.String("error", err.Error()))

			continue
		}

		opts = append(opts, kong.Configuration(load(format), path))
	}

	return opts
}
