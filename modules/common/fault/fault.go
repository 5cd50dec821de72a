package fault

import (
	"errors"
	"fmt"
)

// Kind - which pipeline stage a failure belongs to
type Kind string

const (
	Fetch              Kind = "fetch"
	Synthesis          Kind = "synthesis"
	Generation         Kind = "generation"
	Publish            Kind = "publish"
	Persistence        Kind = "persistence"
	InsufficientSource Kind = "insufficient_source"
)

// Error - a stage failure. Batch loops match on Kind instead of
// catching one broad error.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New - build a stage failure from a format string
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap - tag an underlying error with a stage kind. Returns nil for nil.
func Wrap(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf - the stage kind of err, or "" if err carries no stage tag
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// IsKind - reports whether err is a stage failure of the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
