package introspect

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/viant/dyncall/descriptor"
)

// ErrUnsupportedParameterType is returned when a Go type cannot be mapped to
// any descriptor variant.
var ErrUnsupportedParameterType = errors.New("unsupported parameter type")

// Enumeration is implemented by closed string sets.  Variants lists labels in
// declaration order; it is called on the zero value of the type.
type Enumeration interface {
	Variants() []string
}

// UnsupportedTypeError reports the offending type and where it was found.
type UnsupportedTypeError struct {
	Parameter string
	Path      descriptor.Path
	Type      reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	if e.Parameter == "" {
		return fmt.Sprintf("%v: %v at %v", ErrUnsupportedParameterType, e.Type, e.Path)
	}
	return fmt.Sprintf("%v: parameter %q: %v at %v", ErrUnsupportedParameterType, e.Parameter, e.Type, e.Path)
}

func (e *UnsupportedTypeError) Unwrap() error { return ErrUnsupportedParameterType }

var (
	enumerationType     = reflect.TypeOf((*Enumeration)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	timeType            = reflect.TypeOf(time.Time{})
)

// Type maps a Go type to its descriptor.
func Type(t reflect.Type) (*descriptor.Type, error) {
	return newMapper().describe(t, nil)
}

// Name returns the import-path qualified name used for records and
// enumerations, or an empty string for unnamed types.  Types sharing a
// package name but not an import path get distinct names.
func Name(t reflect.Type) string {
	if t.Name() == "" {
		return ""
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// IsText reports whether values of t are decoded from their text form.
func IsText(t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(textUnmarshalerType)
}

type mapper struct {
	visited map[reflect.Type]*descriptor.Type
	active  map[reflect.Type]bool
}

func newMapper() *mapper {
	return &mapper{visited: map[reflect.Type]*descriptor.Type{}, active: map[reflect.Type]bool{}}
}

func (m *mapper) describe(t reflect.Type, path descriptor.Path) (*descriptor.Type, error) {
	if ret, ok := m.visited[t]; ok {
		return ret, nil
	}
	// only records may recur; type L []L has no finite shape
	if m.active[t] {
		return nil, &UnsupportedTypeError{Path: path, Type: t}
	}
	m.active[t] = true
	defer delete(m.active, t)
	if t.Kind() == reflect.Pointer {
		inner, err := m.describe(t.Elem(), path)
		if err != nil {
			return nil, err
		}
		return descriptor.Optional(inner), nil
	}
	if variants, ok := enumVariants(t); ok {
		if t.Kind() != reflect.String && !IsText(t) {
			return nil, &UnsupportedTypeError{Path: path, Type: t}
		}
		return descriptor.Enum(Name(t), variants...), nil
	}
	if t == timeType {
		return descriptor.DateTime(), nil
	}
	if IsText(t) {
		return descriptor.String(), nil
	}

	switch t.Kind() {
	case reflect.String:
		return descriptor.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return descriptor.Integer(), nil
	case reflect.Float32, reflect.Float64:
		return descriptor.Float(), nil
	case reflect.Bool:
		return descriptor.Boolean(), nil
	case reflect.Slice, reflect.Array:
		elem, err := m.describe(t.Elem(), path.Append("[]"))
		if err != nil {
			return nil, err
		}
		return descriptor.Sequence(elem), nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, &UnsupportedTypeError{Path: path, Type: t}
		}
		value, err := m.describe(t.Elem(), path.Append("{}"))
		if err != nil {
			return nil, err
		}
		return descriptor.Map(value), nil
	case reflect.Struct:
		return m.describeStruct(t, path)
	}
	return nil, &UnsupportedTypeError{Path: path, Type: t}
}

func (m *mapper) describeStruct(t reflect.Type, path descriptor.Path) (*descriptor.Type, error) {
	record := descriptor.Record(Name(t))
	// registered before fields so that self references resolve to the same node
	m.visited[t] = record
	fields := StructFields(t)
	record.Fields = make([]descriptor.Field, 0, len(fields))
	for _, field := range fields {
		fieldType, err := m.describe(field.Type, path.Append(field.Name))
		if err != nil {
			delete(m.visited, t)
			return nil, err
		}
		record.Fields = append(record.Fields, descriptor.Field{
			Name:        field.Name,
			Type:        fieldType,
			Description: field.Description,
		})
	}
	return record, nil
}

func enumVariants(t reflect.Type) ([]string, bool) {
	if t.Kind() == reflect.Interface {
		return nil, false
	}
	switch {
	case t.Implements(enumerationType):
		return reflect.Zero(t).Interface().(Enumeration).Variants(), true
	case reflect.PointerTo(t).Implements(enumerationType):
		return reflect.New(t).Interface().(Enumeration).Variants(), true
	}
	return nil, false
}
