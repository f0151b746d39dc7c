package invoke

import "errors"

var (
	// ErrUnsupportedFunctionShape is returned at construction when the result
	// list is not one of (), (R), (error), (R, error) and fallback is disabled.
	ErrUnsupportedFunctionShape = errors.New("unsupported function shape")
	// ErrFallbackInvocation wraps a trailing error returned by a function
	// invoked through the fallback path.
	ErrFallbackInvocation = errors.New("fallback invocation failed")
	// ErrTargetPanic reports a panic raised by the invoked function.
	ErrTargetPanic = errors.New("target panicked")
)
