package lang

import "github.com/ardnew/moco/pkg"

// Kinds of parse failure. Returned errors match these under [errors.Is] and
// carry the offending unit or directive as log attributes.
var (
	ErrInvalidDirective = pkg.NewFault("invalid directive")
	ErrEmptyUnit        = pkg.NewFault("empty unit")
	ErrNoExports        = pkg.NewFault("no export directives")
	ErrReadInput        = pkg.NewFault("failed to read input")
)
