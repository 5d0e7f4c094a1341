// Package cmd implements the moco subcommands.
//
// Commands read the project configuration through the kong variables set by
// the cli package, and write their results to the kong context's stdout.
// Diagnostics go to the package-level logger.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the project configuration file. It is empty if no file was found.
	ConfigIdentifier = "config"

	// WorkdirIdentifier is the kong variable identifier containing the
	// project directory, where init writes and where defaults resolve.
	WorkdirIdentifier = "workdir"
)
