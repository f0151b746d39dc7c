package invoke

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/viant/dyncall/convert"
	"github.com/viant/dyncall/descriptor"
	"github.com/viant/dyncall/internal/syncmap"
	"github.com/viant/dyncall/introspect"
)

var structFields = syncmap.New[reflect.Type, []introspect.StructField]()

func fieldsOf(t reflect.Type) []introspect.StructField {
	ret, _ := structFields.GetOrCompute(t, func() ([]introspect.StructField, error) {
		return introspect.StructFields(t), nil
	})
	return ret
}

// bind assigns a normalized converted value to a fresh value of type t.
func bind(value any, t reflect.Type, path descriptor.Path) (reflect.Value, error) {
	if t.Kind() == reflect.Pointer {
		if value == nil {
			return reflect.Zero(t), nil
		}
		elem, err := bind(value, t.Elem(), path)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}
	if value == nil {
		return reflect.Zero(t), nil
	}
	if introspect.IsText(t) {
		text, ok := value.(string)
		if !ok {
			return reflect.Value{}, unexpected(path, t, value)
		}
		ptr := reflect.New(t)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
			return reflect.Value{}, &convert.Error{Path: path, Kind: convert.ErrConversionFailure, Expected: t.String(), Actual: "string", Value: text, Err: err}
		}
		return ptr.Elem(), nil
	}

	ret := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		s, ok := value.(string)
		if !ok {
			return reflect.Value{}, unexpected(path, t, value)
		}
		ret.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := value.(int64)
		if !ok {
			return reflect.Value{}, unexpected(path, t, value)
		}
		if ret.OverflowInt(i) {
			return reflect.Value{}, overflow(path, t, value)
		}
		ret.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, ok := value.(int64)
		if !ok {
			return reflect.Value{}, unexpected(path, t, value)
		}
		if i < 0 || ret.OverflowUint(uint64(i)) {
			return reflect.Value{}, overflow(path, t, value)
		}
		ret.SetUint(uint64(i))
	case reflect.Float32, reflect.Float64:
		f, ok := value.(float64)
		if !ok {
			return reflect.Value{}, unexpected(path, t, value)
		}
		if ret.OverflowFloat(f) {
			return reflect.Value{}, overflow(path, t, value)
		}
		ret.SetFloat(f)
	case reflect.Bool:
		b, ok := value.(bool)
		if !ok {
			return reflect.Value{}, unexpected(path, t, value)
		}
		ret.SetBool(b)
	case reflect.Slice, reflect.Array:
		items, ok := value.([]any)
		if !ok {
			return reflect.Value{}, unexpected(path, t, value)
		}
		if t.Kind() == reflect.Array {
			if len(items) != t.Len() {
				return reflect.Value{}, &convert.Error{Path: path, Kind: convert.ErrConversionFailure,
					Expected: fmt.Sprintf("%d elements", t.Len()), Actual: fmt.Sprintf("%d elements", len(items))}
			}
		} else {
			ret = reflect.MakeSlice(t, len(items), len(items))
		}
		for i, item := range items {
			elem, err := bind(item, t.Elem(), path.Index(i))
			if err != nil {
				return reflect.Value{}, err
			}
			ret.Index(i).Set(elem)
		}
	case reflect.Map:
		entries, ok := value.(map[string]any)
		if !ok {
			return reflect.Value{}, unexpected(path, t, value)
		}
		ret = reflect.MakeMapWithSize(t, len(entries))
		for k, v := range entries {
			elem, err := bind(v, t.Elem(), path.Append(k))
			if err != nil {
				return reflect.Value{}, err
			}
			ret.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), elem)
		}
	case reflect.Struct:
		entries, ok := value.(map[string]any)
		if !ok {
			return reflect.Value{}, unexpected(path, t, value)
		}
		for _, field := range fieldsOf(t) {
			raw, ok := entries[field.Name]
			if !ok {
				continue
			}
			elem, err := bind(raw, field.Type, path.Append(field.Name))
			if err != nil {
				return reflect.Value{}, err
			}
			ret.FieldByIndex(field.Index).Set(elem)
		}
	default:
		return reflect.Value{}, unexpected(path, t, value)
	}
	return ret, nil
}

func unexpected(path descriptor.Path, t reflect.Type, value any) error {
	return &convert.Error{Path: path, Kind: convert.ErrConversionFailure, Expected: t.String(), Actual: fmt.Sprintf("%T", value), Value: value}
}

func overflow(path descriptor.Path, t reflect.Type, value any) error {
	return &convert.Error{Path: path, Kind: convert.ErrConversionFailure, Value: value,
		Err: fmt.Errorf("%v overflows %v", value, t)}
}
