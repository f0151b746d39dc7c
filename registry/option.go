package registry

import (
	"github.com/sirupsen/logrus"
	"github.com/viant/dyncall/convert"
)

// Option customises a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger; functions inherit it.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithConverter sets the converter shared by registered functions.
func WithConverter(converter *convert.Converter) Option {
	return func(r *Registry) {
		if converter != nil {
			r.converter = converter
		}
	}
}

// WithFallbackAllowed enables the fallback path for every registered
// function.
func WithFallbackAllowed(allow bool) Option {
	return func(r *Registry) {
		r.allowFallback = allow
	}
}

// AddOption customises a single registration.
type AddOption func(*addOptions)

type addOptions struct {
	description string
	names       []string
	defaults    map[string]any
	fallback    *bool
}

// WithDescription sets the function description.
func WithDescription(description string) AddOption {
	return func(o *addOptions) {
		o.description = description
	}
}

// WithParameters names function parameters in declaration order, excluding a
// leading context.Context.
func WithParameters(names ...string) AddOption {
	return func(o *addOptions) {
		o.names = names
	}
}

// WithDefault sets the value used when the named parameter is absent.
func WithDefault(name string, value any) AddOption {
	return func(o *addOptions) {
		if o.defaults == nil {
			o.defaults = map[string]any{}
		}
		o.defaults[name] = value
	}
}

// WithFallback overrides the registry fallback setting for one function.
func WithFallback(allow bool) AddOption {
	return func(o *addOptions) {
		o.fallback = &allow
	}
}
