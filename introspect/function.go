package introspect

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/viant/dyncall/descriptor"
)

var (
	// ErrNotFunction is returned when the introspected value is not a func.
	ErrNotFunction = errors.New("not a function")
	// ErrParameterNames is returned when supplied names do not line up with
	// the function parameters.
	ErrParameterNames = errors.New("invalid parameter names")
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// ResultShape classifies function results.
type ResultShape int

const (
	ResultNone       ResultShape = iota // func(...)
	ResultValue                         // func(...) R
	ResultError                         // func(...) error
	ResultValueError                    // func(...) (R, error)
	ResultOther
)

// Signature is the introspected form of a function.  Parameters and In are
// aligned: In[i] is the Go type bound to Parameters[i]; for a variadic
// function the last entry is the slice type.
type Signature struct {
	Type       reflect.Type
	Parameters descriptor.Parameters
	In         []reflect.Type
	HasContext bool
	Variadic   bool
	Results    ResultShape
}

// Option customises introspection.
type Option func(*options)

type options struct {
	defaults map[string]any
}

// WithDefault marks a parameter as having a default value, used when the
// argument bag carries no entry for it.
func WithDefault(name string, value any) Option {
	return func(o *options) {
		if o.defaults == nil {
			o.defaults = map[string]any{}
		}
		o.defaults[name] = value
	}
}

// Function introspects fn.  names lists parameter names in declaration order,
// excluding a leading context.Context parameter.
func Function(fn any, names []string, opts ...Option) (*Signature, error) {
	if fn == nil {
		return nil, ErrNotFunction
	}
	return FunctionType(reflect.TypeOf(fn), names, opts...)
}

// FunctionType introspects a function type; see Function.
func FunctionType(fnType reflect.Type, names []string, opts ...Option) (*Signature, error) {
	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %v", ErrNotFunction, fnType)
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	sig := &Signature{Type: fnType, Variadic: fnType.IsVariadic(), Results: resultShape(fnType)}
	offset := 0
	if fnType.NumIn() > 0 && fnType.In(0) == contextType {
		sig.HasContext = true
		offset = 1
	}
	if err := validateNames(names, fnType.NumIn()-offset); err != nil {
		return nil, err
	}
	m := newMapper()
	for i, name := range names {
		in := fnType.In(i + offset)
		paramType, err := m.describe(in, descriptor.Path{name})
		if err != nil {
			var unsupported *UnsupportedTypeError
			if errors.As(err, &unsupported) {
				unsupported.Parameter = name
			}
			return nil, err
		}
		sig.Parameters = append(sig.Parameters, descriptor.Parameter{Name: name, Type: paramType})
		sig.In = append(sig.In, in)
	}
	if len(o.defaults) == 0 {
		return sig, nil
	}
	return sig.WithDefaults(o.defaults)
}

// WithDefaults returns a copy of the signature with the supplied parameter
// defaults; the receiver is left untouched so that it can be cached.
func (s *Signature) WithDefaults(defaults map[string]any) (*Signature, error) {
	ret := *s
	ret.Parameters = make(descriptor.Parameters, len(s.Parameters))
	copy(ret.Parameters, s.Parameters)
	for name, value := range defaults {
		param := ret.Parameters.Lookup(name)
		if param == nil {
			return nil, fmt.Errorf("%w: default for unknown parameter %q", ErrParameterNames, name)
		}
		param.HasDefault = true
		param.Default = value
	}
	return &ret, nil
}

func validateNames(names []string, expect int) error {
	if len(names) != expect {
		return fmt.Errorf("%w: expected %d, but had %d", ErrParameterNames, expect, len(names))
	}
	unique := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			return fmt.Errorf("%w: empty name", ErrParameterNames)
		}
		if unique[name] {
			return fmt.Errorf("%w: duplicate %q", ErrParameterNames, name)
		}
		unique[name] = true
	}
	return nil
}

func resultShape(fnType reflect.Type) ResultShape {
	switch fnType.NumOut() {
	case 0:
		return ResultNone
	case 1:
		if fnType.Out(0) == errorType {
			return ResultError
		}
		return ResultValue
	case 2:
		if fnType.Out(1) == errorType && fnType.Out(0) != errorType {
			return ResultValueError
		}
	}
	return ResultOther
}
