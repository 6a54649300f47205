package clockfmt

import "github.com/pkg/errors"

// Kind tags a clockfmt error with one of the five machine-readable
// categories from the scan runtime's error design.
type Kind string

const (
	KindBadInputString Kind = "badInputString"
	KindDateTooLarge   Kind = "dateTooLarge"
	KindBadDayOfWeek   Kind = "badDayOfWeek"
	KindLocaleMissing  Kind = "localeError"
	KindBadTimezone    Kind = "badTimezone"
)

// Error is the error type returned by every exported clockfmt operation
// that can fail. Callers that need to branch on the failure category
// should switch on Kind rather than matching message text.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string { return e.err.Error() }
func (e *Error) Unwrap() error { return e.err }

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, err: errors.Errorf(format, args...)}
}

func wrapError(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, err: errors.Wrapf(cause, format, args...)}
}

// AsClockError reports whether err (or something it wraps) is a *Error,
// and returns it.
func AsClockError(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
