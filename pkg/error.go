package pkg

import "strings"

// Error is an ordered collection of independent errors, such as the failures
// collected over a batch. [errors.Is] and [errors.As] consider every member.
type Error []error

// MakeError constructs an Error from the given errors, dropping nil values.
func MakeError(errs ...error) Error {
	var e Error

	return e.Wrap(errs...)
}

// Error returns the messages of all members separated by "; ".
func (e Error) Error() string {
	var sb strings.Builder

	for i, err := range e {
		if i > 0 {
			sb.WriteString("; ")
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Wrap appends the non-nil errors to the receiver and returns the result.
func (e Error) Wrap(errs ...error) Error {
	for _, err := range errs {
		if err != nil {
			e = append(e, err)
		}
	}

	return e
}

// Unwrap returns the members of the receiver.
func (e Error) Unwrap() []error {
	return e
}

// Err returns the receiver as an error, or nil if it has no members.
func (e Error) Err() error {
	if len(e) == 0 {
		return nil
	}

	return e
}
