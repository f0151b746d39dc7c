package convert

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/viant/dyncall/descriptor"
)

// DefaultMaxDepth bounds container nesting during conversion.
const DefaultMaxDepth = 64

// Converter interprets a descriptor against a dynamic value.  It holds no
// mutable state and is safe for concurrent use.
type Converter struct {
	maxDepth int
}

// Option customises a Converter.
type Option func(*Converter)

// WithMaxDepth sets the maximum container nesting; values below one keep the
// default.
func WithMaxDepth(depth int) Option {
	return func(c *Converter) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// New creates a converter.
func New(opts ...Option) *Converter {
	ret := &Converter{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

var defaultConverter = New()

// Convert converts value with the default converter.
func Convert(t *descriptor.Type, value any, path descriptor.Path) (any, error) {
	return defaultConverter.Convert(t, value, path)
}

// Convert returns value normalized to t or an *Error locating the first
// failure.  Normalized forms: string, int64, float64, bool, []any,
// map[string]any; an absent optional is nil.
func (c *Converter) Convert(t *descriptor.Type, value any, path descriptor.Path) (any, error) {
	return c.convert(t, value, path, 0)
}

func (c *Converter) convert(t *descriptor.Type, value any, path descriptor.Path, depth int) (any, error) {
	value = indirect(value)
	switch t.Kind {
	case descriptor.KindOptional:
		if value == nil {
			return nil, nil
		}
		return c.convert(t.Elem, value, path, depth)
	case descriptor.KindPrimitive:
		return primitive(t, value, path)
	case descriptor.KindEnum:
		return enum(t, value, path)
	}

	if depth >= c.maxDepth {
		return nil, &Error{Path: path, Kind: ErrConversionFailure, Err: fmt.Errorf("maximum depth %d exceeded", c.maxDepth)}
	}
	switch t.Kind {
	case descriptor.KindSequence:
		return c.sequence(t, value, path, depth+1)
	case descriptor.KindMap:
		return c.mapping(t, value, path, depth+1)
	case descriptor.KindRecord:
		return c.record(t, value, path, depth+1)
	}
	return nil, &Error{Path: path, Kind: ErrConversionFailure, Err: fmt.Errorf("unknown descriptor kind %v", t.Kind)}
}

func (c *Converter) sequence(t *descriptor.Type, value any, path descriptor.Path, depth int) (any, error) {
	if items, ok := value.([]any); ok {
		ret := make([]any, len(items))
		for i, item := range items {
			converted, err := c.convert(t.Elem, item, path.Index(i), depth)
			if err != nil {
				return nil, err
			}
			ret[i] = converted
		}
		return ret, nil
	}
	rv := reflect.ValueOf(value)
	if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, newFailure(path, "sequence", value)
	}
	ret := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		converted, err := c.convert(t.Elem, rv.Index(i).Interface(), path.Index(i), depth)
		if err != nil {
			return nil, err
		}
		ret[i] = converted
	}
	return ret, nil
}

func (c *Converter) mapping(t *descriptor.Type, value any, path descriptor.Path, depth int) (any, error) {
	entries, err := stringKeyed(value, path)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ret := make(map[string]any, len(entries))
	for _, k := range keys {
		converted, err := c.convert(t.Elem, entries[k], path.Append(k), depth)
		if err != nil {
			return nil, err
		}
		ret[k] = converted
	}
	return ret, nil
}

func (c *Converter) record(t *descriptor.Type, value any, path descriptor.Path, depth int) (any, error) {
	entries, err := stringKeyed(value, path)
	if err != nil {
		return nil, err
	}
	ret := make(map[string]any, len(t.Fields))
	for _, field := range t.Fields {
		fieldPath := path.Append(field.Name)
		raw, ok := entries[field.Name]
		if !ok || indirect(raw) == nil {
			if field.Type.IsOptional() {
				continue
			}
			return nil, &Error{Path: fieldPath, Kind: ErrMissingRequiredField}
		}
		converted, err := c.convert(field.Type, raw, fieldPath, depth)
		if err != nil {
			return nil, err
		}
		if converted != nil {
			ret[field.Name] = converted
		}
	}
	return ret, nil
}

func enum(t *descriptor.Type, value any, path descriptor.Path) (any, error) {
	label, ok := asString(value)
	if !ok {
		return nil, newMismatch(path, "string", value)
	}
	if !t.HasVariant(label) {
		return nil, &Error{Path: path, Kind: ErrUnknownEnumVariant, Value: label, Variants: t.Variants}
	}
	return label, nil
}

func primitive(t *descriptor.Type, value any, path descriptor.Path) (any, error) {
	switch t.Primitive {
	case descriptor.PrimitiveString:
		if s, ok := asString(value); ok {
			return s, nil
		}
	case descriptor.PrimitiveInteger:
		if i, ok, err := asInteger(value); ok {
			if err != nil {
				return nil, &Error{Path: path, Kind: ErrConversionFailure, Value: value, Err: err}
			}
			return i, nil
		}
	case descriptor.PrimitiveFloat:
		if f, ok := asFloat(value); ok {
			return f, nil
		}
	case descriptor.PrimitiveBoolean:
		if value != nil && reflect.TypeOf(value).Kind() == reflect.Bool {
			return reflect.ValueOf(value).Bool(), nil
		}
	}
	return nil, newMismatch(path, t.Primitive.String(), value)
}

func asString(value any) (string, bool) {
	switch actual := value.(type) {
	case string:
		return actual, true
	case json.Number:
		return "", false
	case nil:
		return "", false
	}
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// asInteger accepts integral numbers only; ok is false for non numeric
// values, err is set for numbers that cannot be represented as int64.
func asInteger(value any) (int64, bool, error) {
	switch actual := value.(type) {
	case int64:
		return actual, true, nil
	case int:
		return int64(actual), true, nil
	case float64:
		return fromFloat(actual)
	case json.Number:
		if i, err := actual.Int64(); err == nil {
			return i, true, nil
		}
		f, err := actual.Float64()
		if err != nil {
			return 0, false, nil
		}
		return fromFloat(f)
	case nil:
		return 0, false, nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, true, fmt.Errorf("%d overflows int64", u)
		}
		return int64(u), true, nil
	case reflect.Float32, reflect.Float64:
		return fromFloat(rv.Float())
	}
	return 0, false, nil
}

func fromFloat(f float64) (int64, bool, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false, nil
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, true, fmt.Errorf("%v overflows int64", f)
	}
	return int64(f), true, nil
}

func asFloat(value any) (float64, bool) {
	switch actual := value.(type) {
	case float64:
		return actual, true
	case json.Number:
		f, err := actual.Float64()
		return f, err == nil
	case nil:
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	}
	return 0, false
}

// stringKeyed views a mapping value as map[string]any.
func stringKeyed(value any, path descriptor.Path) (map[string]any, error) {
	if m, ok := value.(map[string]any); ok {
		return m, nil
	}
	rv := reflect.ValueOf(value)
	if value == nil || rv.Kind() != reflect.Map {
		return nil, newFailure(path, "map", value)
	}
	keyKind := rv.Type().Key().Kind()
	if keyKind != reflect.String && keyKind != reflect.Interface {
		return nil, newFailure(path, "map", value)
	}
	ret := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, ok := asString(indirect(iter.Key().Interface()))
		if !ok {
			return nil, &Error{Path: path, Kind: ErrConversionFailure, Expected: "string key", Actual: kindOf(iter.Key().Interface())}
		}
		ret[key] = iter.Value().Interface()
	}
	return ret, nil
}

// indirect dereferences pointers; a nil pointer becomes nil.
func indirect(value any) any {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

// kindOf names the dynamic kind of value for error messages.
func kindOf(value any) string {
	if value == nil {
		return "null"
	}
	if _, ok := value.(json.Number); ok {
		return "number"
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "sequence"
	case reflect.Map, reflect.Struct:
		return "map"
	}
	return fmt.Sprintf("%T", value)
}
