package document

import "github.com/ardnew/moco/pkg"

var (
	ErrNotFound         = pkg.NewFault("target file not found")
	ErrMissingComponent = pkg.NewFault("target component not found")
	ErrRead             = pkg.NewFault("read document")
	ErrWrite            = pkg.NewFault("write document")
	ErrInvalidJSON      = pkg.NewFault("invalid JSON")
)
