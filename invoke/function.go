package invoke

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/viant/dyncall/convert"
	"github.com/viant/dyncall/descriptor"
	"github.com/viant/dyncall/internal/logging"
	"github.com/viant/dyncall/introspect"
)

// Function is a prepared dynamic call target.  It is immutable after New and
// safe for concurrent use.
type Function struct {
	name          string
	fn            reflect.Value
	signature     *introspect.Signature
	converter     *convert.Converter
	logger        logrus.FieldLogger
	allowFallback bool
	defaults      map[string]any
	// converted holds normalized defaults, aligned with signature.Parameters.
	converted []any
}

// Option customises a Function.
type Option func(*Function)

// WithName sets the name used in log entries.
func WithName(name string) Option {
	return func(f *Function) {
		f.name = name
	}
}

// WithConverter sets the value converter.
func WithConverter(converter *convert.Converter) Option {
	return func(f *Function) {
		if converter != nil {
			f.converter = converter
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(f *Function) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithFallback allows functions with an unsupported result shape to be
// invoked through the fallback path.
func WithFallback(allow bool) Option {
	return func(f *Function) {
		f.allowFallback = allow
	}
}

// WithDefault sets the value used when the named parameter is absent.
func WithDefault(name string, value any) Option {
	return func(f *Function) {
		if f.defaults == nil {
			f.defaults = map[string]any{}
		}
		f.defaults[name] = value
	}
}

// New introspects fn and prepares it for dynamic invocation.  names lists
// parameter names in declaration order, excluding a leading context.Context.
func New(fn any, names []string, opts ...Option) (*Function, error) {
	signature, err := introspect.Function(fn, names)
	if err != nil {
		return nil, err
	}
	return FromSignature(fn, signature, opts...)
}

// FromSignature prepares fn using an already introspected signature.
func FromSignature(fn any, signature *introspect.Signature, opts ...Option) (*Function, error) {
	fnValue := reflect.ValueOf(fn)
	if fn == nil || fnValue.Type() != signature.Type {
		return nil, fmt.Errorf("%w: %T does not match signature %v", introspect.ErrNotFunction, fn, signature.Type)
	}
	if fnValue.IsNil() {
		return nil, fmt.Errorf("%w: nil %v", introspect.ErrNotFunction, signature.Type)
	}
	ret := &Function{fn: fnValue, signature: signature, converter: convert.New(), logger: logging.Discard()}
	for _, opt := range opts {
		opt(ret)
	}
	if signature.Results == introspect.ResultOther && !ret.allowFallback {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFunctionShape, signature.Type)
	}
	if err := ret.initDefaults(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (f *Function) initDefaults() error {
	if len(f.defaults) > 0 {
		signature, err := f.signature.WithDefaults(f.defaults)
		if err != nil {
			return err
		}
		f.signature = signature
	}
	f.converted = make([]any, len(f.signature.Parameters))
	for i, param := range f.signature.Parameters {
		if !param.HasDefault {
			continue
		}
		path := descriptor.Path{param.Name}
		converted, err := f.converter.Convert(param.Type, param.Default, path)
		if err != nil {
			return fmt.Errorf("invalid default for %v: %w", param.Name, err)
		}
		if _, err = bind(converted, f.signature.In[i], path); err != nil {
			return fmt.Errorf("invalid default for %v: %w", param.Name, err)
		}
		f.converted[i] = converted
	}
	return nil
}

// Name returns the configured function name.
func (f *Function) Name() string { return f.name }

// Signature returns the introspected signature, defaults included.
func (f *Function) Signature() *introspect.Signature { return f.signature }

// Parameters returns the parameter descriptors in declaration order.
func (f *Function) Parameters() descriptor.Parameters { return f.signature.Parameters }

// Fallback reports whether calls go through the fallback path.
func (f *Function) Fallback() bool {
	return f.signature.Results == introspect.ResultOther
}

// Arguments converts bag into the ordered argument list, excluding a leading
// context.  A null entry is treated as absent.
func (f *Function) Arguments(bag map[string]any) ([]reflect.Value, error) {
	ret := make([]reflect.Value, len(f.signature.Parameters))
	for i, param := range f.signature.Parameters {
		path := descriptor.Path{param.Name}
		in := f.signature.In[i]
		raw, ok := bag[param.Name]
		if !ok || raw == nil {
			switch {
			case param.HasDefault:
				value, err := bind(f.converted[i], in, path)
				if err != nil {
					return nil, err
				}
				ret[i] = value
			case param.Type.IsOptional():
				ret[i] = reflect.Zero(in)
			default:
				return nil, convert.MissingParameter(param.Name)
			}
			continue
		}
		converted, err := f.converter.Convert(param.Type, raw, path)
		if err != nil {
			return nil, err
		}
		value, err := bind(converted, in, path)
		if err != nil {
			return nil, err
		}
		ret[i] = value
	}
	return ret, nil
}

// Invoke converts bag and calls the function.  The result is nil for (), the
// value for (R) and (R, error), and []any for the fallback path.
func (f *Function) Invoke(ctx context.Context, bag map[string]any) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := f.logger.WithFields(logrus.Fields{"function": f.name, "invocation": uuid.New().String()})
	args, err := f.Arguments(bag)
	if err != nil {
		logger.WithError(err).Debug("argument conversion failed")
		return nil, err
	}
	if f.signature.HasContext {
		args = append([]reflect.Value{reflect.ValueOf(ctx)}, args...)
	}
	started := time.Now()
	out, err := f.call(args)
	logger = logger.WithField("elapsed", time.Since(started))
	if err != nil {
		logger.WithError(err).Error("invocation panicked")
		return nil, err
	}
	logger.Debug("invoked")

	switch f.signature.Results {
	case introspect.ResultNone:
		return nil, nil
	case introspect.ResultValue:
		return out[0].Interface(), nil
	case introspect.ResultError:
		return nil, asError(out[0])
	case introspect.ResultValueError:
		if err := asError(out[1]); err != nil {
			return nil, err
		}
		return out[0].Interface(), nil
	}
	return f.fallbackResult(out, logger)
}

func (f *Function) fallbackResult(out []reflect.Value, logger logrus.FieldLogger) (any, error) {
	logger.WithField("results", len(out)).Warn("fallback invocation")
	ret := make([]any, len(out))
	for i, value := range out {
		ret[i] = value.Interface()
	}
	if last := len(out) - 1; last >= 0 && out[last].Type() == errorType {
		if err := asError(out[last]); err != nil {
			return ret, fmt.Errorf("%w: %w", ErrFallbackInvocation, err)
		}
	}
	return ret, nil
}

func (f *Function) call(args []reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTargetPanic, r)
		}
	}()
	if f.signature.Variadic {
		return f.fn.CallSlice(args), nil
	}
	return f.fn.Call(args), nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func asError(value reflect.Value) error {
	if value.IsNil() {
		return nil
	}
	return value.Interface().(error)
}

// Invoke is a one shot helper: it prepares fn with params names and calls it
// with bag.
func Invoke(fn any, params []string, bag map[string]any) (any, error) {
	function, err := New(fn, params)
	if err != nil {
		return nil, err
	}
	return function.Invoke(context.Background(), bag)
}
