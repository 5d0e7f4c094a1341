package cmd

import (
	"context"
	"path/filepath"

	"github.com/ardnew/moco/cli/cmd/repl"
	"github.com/ardnew/moco/log"
)

// historyFile is the name of the REPL history file in the cache directory.
const historyFile = "history"

// Repl starts an interactive session for defining functions and expanding
// expressions. Functions from --library scripts are defined at startup.
type Repl struct {
	MaxPasses int  `config:"expand-max-passes" default:"${maxPasses}" help:"Maximum number of expansion passes" short:"m"`
	NoHistory bool `help:"Keep input history in memory only"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg := repl.Config{
		MaxPasses: r.MaxPasses,
		Logger:    log.Default(),
	}

	if lib := sourceFilesFrom(ctx); lib != nil {
		defer lib.Close()

		cfg.Library = lib
	}

	if dir := vars(ctx)[CacheIdentifier]; dir != "" && !r.NoHistory {
		cfg.HistoryFile = filepath.Join(dir, historyFile)
	}

	return repl.Run(ctx, cfg)
}
