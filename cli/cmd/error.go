package cmd

import "github.com/ardnew/moco/pkg"

var (
	ErrJSONMarshal = pkg.NewFault("marshal JSON")
	ErrYAMLMarshal = pkg.NewFault("marshal YAML")
	ErrWriteConfig = pkg.NewFault("write configuration file")
	ErrFileExists  = pkg.NewFault("file exists (use --force to overwrite)")
	ErrFailures    = pkg.NewFault("one or more scripts failed")
	ErrNoInput     = pkg.NewFault("no input")
)
