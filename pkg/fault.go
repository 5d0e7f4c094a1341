package pkg

import (
	"errors"
	"log/slog"
	"slices"
)

// Fault is an error of a named kind. Its message names the kind; a Fault
// may also carry the error that caused it and attributes for structured
// logging. A package declares its kinds as sentinels and returns copies
// made with [Fault.Wrap] and [Fault.With], which still match the sentinel
// under [errors.Is].
type Fault struct {
	cause error
	msg   string
	attrs []slog.Attr
}

// NewFault returns a Fault of the kind named msg.
func NewFault(msg string) *Fault { return &Fault{msg: msg} }

// AsFault returns the first Fault in err's chain, or a Fault with no kind
// caused by err.
func AsFault(err error) *Fault {
	var f *Fault
	if errors.As(err, &f) {
		return f
	}

	return &Fault{cause: err}
}

// Error returns "<kind>: <cause>", or whichever of the two is set.
func (f *Fault) Error() string {
	switch {
	case f.cause == nil:
		return f.msg
	case f.msg == "":
		return f.cause.Error()
	}

	return f.msg + ": " + f.cause.Error()
}

// Unwrap returns the cause.
func (f *Fault) Unwrap() error { return f.cause }

// Is reports whether target is a Fault of the same kind.
func (f *Fault) Is(target error) bool {
	t, ok := target.(*Fault)

	return ok && t.msg != "" && t.msg == f.msg
}

// LogValue groups the kind, the cause and the attributes.
func (f *Fault) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(f.attrs)+2)

	if f.msg != "" {
		attrs = append(attrs, slog.String("error", f.msg))
	}

	if f.cause != nil {
		attrs = append(attrs, slog.String("cause", f.cause.Error()))
	}

	return slog.GroupValue(append(attrs, f.attrs...)...)
}

// Wrap returns a copy of f caused by err.
func (f *Fault) Wrap(err error) *Fault {
	c := *f
	c.cause = err

	return &c
}

// With returns a copy of f with attrs appended.
func (f *Fault) With(attrs ...slog.Attr) *Fault {
	c := *f
	c.attrs = slices.Concat(f.attrs, attrs)

	return &c
}
