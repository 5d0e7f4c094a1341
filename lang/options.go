package lang

import "github.com/ardnew/moco/log"

// DefaultMaxPasses is the default bound on expansion passes over one unit.
const DefaultMaxPasses = 32

// Option configures extraction, expansion and parsing.
type Option func(*options)

type options struct {
	logger    log.Logger
	maxPasses int
	lenient   bool
}

// WithLogger sets the structured logger used for trace and debug output.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxPasses bounds the number of expansion passes. Values less than one
// select [DefaultMaxPasses].
func WithMaxPasses(n int) Option {
	return func(o *options) {
		o.maxPasses = n
	}
}

// WithoutExports accepts units that carry no export directives.
func WithoutExports() Option {
	return func(o *options) {
		o.lenient = true
	}
}

func makeOptions(opts ...Option) options {
	o := options{maxPasses: DefaultMaxPasses}

	for _, opt := range opts {
		opt(&o)
	}

	if o.maxPasses < 1 {
		o.maxPasses = DefaultMaxPasses
	}

	return o
}
