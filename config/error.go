package config

import "github.com/ardnew/moco/pkg"

// Configuration failures.
var (
	ErrLoad    = pkg.NewFault("load configuration")
	ErrInvalid = pkg.NewFault("invalid configuration")
	ErrFormat  = pkg.NewFault("unsupported configuration format")
	ErrEncode  = pkg.NewFault("encode configuration")
)
