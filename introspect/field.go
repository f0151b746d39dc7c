package introspect

import (
	"reflect"
	"strings"
)

// StructField is an exported struct field as seen by callers: its wire name,
// index path (embedded structs are flattened) and Go type.
type StructField struct {
	Name        string
	Index       []int
	Type        reflect.Type
	Description string
}

// StructFields lists the fields of a struct type: direct fields in declaration
// order, followed by fields promoted from embedded structs unless shadowed.
// Field names come from the json tag when present; fields tagged "-" are
// skipped.
func StructFields(t reflect.Type) []StructField {
	var ret []StructField
	seen := map[string]bool{}
	collectFields(t, nil, seen, &ret)
	return ret
}

func collectFields(t reflect.Type, index []int, seen map[string]bool, out *[]StructField) {
	type embedded struct {
		index []int
		typ   reflect.Type
	}
	var promoted []embedded
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, skip := fieldName(f)
		if skip {
			continue
		}
		fieldIndex := append(append([]int{}, index...), i)
		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			promoted = append(promoted, embedded{index: fieldIndex, typ: f.Type})
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		*out = append(*out, StructField{
			Name:        name,
			Index:       fieldIndex,
			Type:        f.Type,
			Description: f.Tag.Get("description"),
		})
	}
	for _, e := range promoted {
		collectFields(e.typ, e.index, seen, out)
	}
}

func fieldName(f reflect.StructField) (string, bool) {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return "", false
	}
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	return name, false
}
