package registry

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/sirupsen/logrus"
	"github.com/viant/dyncall/convert"
	"github.com/viant/dyncall/internal/logging"
	"github.com/viant/dyncall/internal/syncmap"
	"github.com/viant/dyncall/introspect"
	"github.com/viant/dyncall/invoke"
	"github.com/viant/dyncall/schema"
)

var (
	// ErrDuplicate is returned when a name is registered twice.
	ErrDuplicate = errors.New("function already registered")
	// ErrNotFound is returned for an unknown function name.
	ErrNotFound = errors.New("function not found")
)

// Entry is a registered function.
type Entry struct {
	Name        string
	Description string
	Function    *invoke.Function
	Schema      *jsonschema.Schema
}

type signatureKey struct {
	fnType reflect.Type
	names  string
}

// Registry maps names to prepared functions.  It is safe for concurrent use.
type Registry struct {
	entries       *syncmap.Map[string, *Entry]
	signatures    *syncmap.Map[signatureKey, *introspect.Signature]
	converter     *convert.Converter
	logger        logrus.FieldLogger
	allowFallback bool
}

// New creates a registry.
func New(opts ...Option) *Registry {
	ret := &Registry{
		entries:    syncmap.New[string, *Entry](),
		signatures: syncmap.New[signatureKey, *introspect.Signature](),
		converter:  convert.New(),
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Add registers fn under name.  A registration failure is logged and
// returned; nothing is registered in that case.
func (r *Registry) Add(name string, fn any, opts ...AddOption) error {
	entry, err := r.build(name, fn, opts)
	if err != nil {
		r.logger.WithField("function", name).WithError(err).Error("failed to register function")
		return err
	}
	if !r.entries.SetIfAbsent(name, entry) {
		err = fmt.Errorf("%w: %v", ErrDuplicate, name)
		r.logger.WithField("function", name).WithError(err).Error("failed to register function")
		return err
	}
	r.logger.WithFields(logrus.Fields{"function": name, "parameters": entry.Function.Parameters().Names()}).Debug("registered function")
	return nil
}

func (r *Registry) build(name string, fn any, opts []AddOption) (*Entry, error) {
	if name == "" {
		return nil, fmt.Errorf("function name was empty")
	}
	if _, ok := r.entries.Get(name); ok {
		return nil, fmt.Errorf("%w: %v", ErrDuplicate, name)
	}
	options := &addOptions{}
	for _, opt := range opts {
		opt(options)
	}
	signature, err := r.signature(fn, options.names)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect %v: %w", name, err)
	}
	allowFallback := r.allowFallback
	if options.fallback != nil {
		allowFallback = *options.fallback
	}
	fnOptions := []invoke.Option{
		invoke.WithName(name),
		invoke.WithConverter(r.converter),
		invoke.WithLogger(r.logger),
		invoke.WithFallback(allowFallback),
	}
	for paramName, value := range options.defaults {
		fnOptions = append(fnOptions, invoke.WithDefault(paramName, value))
	}
	function, err := invoke.FromSignature(fn, signature, fnOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare %v: %w", name, err)
	}
	return &Entry{
		Name:        name,
		Description: options.description,
		Function:    function,
		Schema:      schema.Generate(function.Parameters()),
	}, nil
}

// signature returns the cached introspection of fn for the given names.
func (r *Registry) signature(fn any, names []string) (*introspect.Signature, error) {
	if fn == nil {
		return nil, introspect.ErrNotFunction
	}
	key := signatureKey{fnType: reflect.TypeOf(fn), names: strings.Join(names, "\x00")}
	return r.signatures.GetOrCompute(key, func() (*introspect.Signature, error) {
		return introspect.Function(fn, names)
	})
}

// Remove unregisters name and reports whether it was registered.
func (r *Registry) Remove(name string) bool {
	return r.entries.Delete(name)
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	return r.entries.Get(name)
}

// List returns all entries sorted by name.
func (r *Registry) List() []*Entry {
	ret := r.entries.List()
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name < ret[j].Name })
	return ret
}

// Names returns registered names, sorted.
func (r *Registry) Names() []string {
	ret := r.entries.Keys()
	sort.Strings(ret)
	return ret
}

// Invoke calls the function registered under name.
func (r *Registry) Invoke(ctx context.Context, name string, bag map[string]any) (any, error) {
	entry, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, name)
	}
	return entry.Function.Invoke(ctx, bag)
}

// Types returns the named struct types reachable from registered parameters,
// sorted by their qualified name.
func (r *Registry) Types() []reflect.Type {
	seen := map[reflect.Type]bool{}
	var ret []reflect.Type
	var walk func(t reflect.Type)
	walk = func(t reflect.Type) {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
			walk(t.Elem())
			return
		case reflect.Struct:
		default:
			return
		}
		if seen[t] {
			return
		}
		seen[t] = true
		if t.Name() != "" && !introspect.IsText(t) {
			ret = append(ret, t)
		}
		for _, field := range introspect.StructFields(t) {
			walk(field.Type)
		}
	}
	for _, entry := range r.List() {
		for _, in := range entry.Function.Signature().In {
			walk(in)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].String() < ret[j].String() })
	return ret
}
