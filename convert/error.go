package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/viant/dyncall/descriptor"
)

// Conversion failure kinds.  Use errors.Is against these to classify a
// returned *Error.
var (
	ErrMissingRequiredField     = errors.New("missing required field")
	ErrMissingRequiredParameter = errors.New("missing required parameter")
	ErrTypeMismatch             = errors.New("type mismatch")
	ErrUnknownEnumVariant       = errors.New("unknown enum variant")
	ErrConversionFailure        = errors.New("conversion failure")
)

// Error is a path-qualified conversion failure.
type Error struct {
	Path     descriptor.Path
	Kind     error
	Expected string
	Actual   string
	Value    any
	Variants []string
	// Err is an optional underlying cause.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	b.WriteString(" at ")
	b.WriteString(e.Path.String())
	switch {
	case e.Kind == ErrUnknownEnumVariant:
		fmt.Fprintf(&b, ": %q is not one of [%s]", e.Value, strings.Join(e.Variants, ", "))
	case e.Expected != "" || e.Actual != "":
		fmt.Fprintf(&b, ": expected %s, but had %s", e.Expected, e.Actual)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is matches the failure kind; a missing parameter is also a missing field.
func (e *Error) Is(target error) bool {
	if target == e.Kind {
		return true
	}
	return e.Kind == ErrMissingRequiredParameter && target == ErrMissingRequiredField
}

func (e *Error) Unwrap() error { return e.Err }

func newMismatch(path descriptor.Path, expected string, value any) *Error {
	return &Error{Path: path, Kind: ErrTypeMismatch, Expected: expected, Actual: kindOf(value), Value: value}
}

func newFailure(path descriptor.Path, expected string, value any) *Error {
	return &Error{Path: path, Kind: ErrConversionFailure, Expected: expected, Actual: kindOf(value), Value: value}
}

// MissingParameter reports an absent top-level argument.
func MissingParameter(name string) *Error {
	return &Error{Path: descriptor.Path{name}, Kind: ErrMissingRequiredParameter}
}
