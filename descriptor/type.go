package descriptor

import (
	"strings"
)

// Kind identifies the variant held by a Type.
type Kind int

const (
	KindPrimitive Kind = iota
	KindOptional
	KindSequence
	KindMap
	KindRecord
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindOptional:
		return "optional"
	case KindSequence:
		return "sequence"
	case KindMap:
		return "map"
	case KindRecord:
		return "record"
	case KindEnum:
		return "enum"
	}
	return "unknown"
}

// Primitive identifies a scalar kind.
type Primitive int

const (
	PrimitiveString Primitive = iota
	PrimitiveInteger
	PrimitiveFloat
	PrimitiveBoolean
)

func (p Primitive) String() string {
	switch p {
	case PrimitiveString:
		return "string"
	case PrimitiveInteger:
		return "integer"
	case PrimitiveFloat:
		return "float"
	case PrimitiveBoolean:
		return "boolean"
	}
	return "unknown"
}

// FormatDateTime marks a string primitive holding an RFC 3339 timestamp.
const FormatDateTime = "date-time"

// Type is a tagged variant describing one parameter or field shape.
//
// Only the members relevant to Kind are set: Primitive and Format for
// primitives, Elem for optionals, sequences and maps, Name and Fields for
// records, Name and Variants for enumerations.  A record may reach itself
// through its fields, in which case the graph is cyclic by pointer.
type Type struct {
	Kind      Kind
	Primitive Primitive
	Format    string
	Elem      *Type
	Name      string
	Fields    []Field
	Variants  []string
}

// Field is a named member of a record.
type Field struct {
	Name        string
	Type        *Type
	Description string
}

func String() *Type  { return &Type{Kind: KindPrimitive, Primitive: PrimitiveString} }
func Integer() *Type { return &Type{Kind: KindPrimitive, Primitive: PrimitiveInteger} }
func Float() *Type   { return &Type{Kind: KindPrimitive, Primitive: PrimitiveFloat} }
func Boolean() *Type { return &Type{Kind: KindPrimitive, Primitive: PrimitiveBoolean} }

// DateTime returns a string primitive formatted as date-time.
func DateTime() *Type {
	return &Type{Kind: KindPrimitive, Primitive: PrimitiveString, Format: FormatDateTime}
}

func Optional(inner *Type) *Type { return &Type{Kind: KindOptional, Elem: inner} }
func Sequence(elem *Type) *Type  { return &Type{Kind: KindSequence, Elem: elem} }
func Map(value *Type) *Type      { return &Type{Kind: KindMap, Elem: value} }

// Record returns a named product type with the supplied fields in order.
func Record(name string, fields ...Field) *Type {
	return &Type{Kind: KindRecord, Name: name, Fields: fields}
}

// Enum returns a closed set of string labels in declaration order.
func Enum(name string, variants ...string) *Type {
	return &Type{Kind: KindEnum, Name: name, Variants: variants}
}

// NewField is a shorthand for a field without description.
func NewField(name string, t *Type) Field {
	return Field{Name: name, Type: t}
}

// IsOptional reports whether absence is a valid value for t.
func (t *Type) IsOptional() bool {
	return t != nil && t.Kind == KindOptional
}

// Field returns the record field with the given name.
func (t *Type) Field(name string) (*Field, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}
	return nil, false
}

// HasVariant reports whether label belongs to an enumeration.
func (t *Type) HasVariant(label string) bool {
	for _, v := range t.Variants {
		if v == label {
			return true
		}
	}
	return false
}

// String renders t in a compact, Go-like notation.  Named records and enums
// render by name so that recursive types terminate.
func (t *Type) String() string {
	var b strings.Builder
	t.write(&b, map[*Type]bool{})
	return b.String()
}

func (t *Type) write(b *strings.Builder, visiting map[*Type]bool) {
	if t == nil {
		b.WriteString("<nil>")
		return
	}
	switch t.Kind {
	case KindPrimitive:
		b.WriteString(t.Primitive.String())
		if t.Format != "" {
			b.WriteString("(" + t.Format + ")")
		}
	case KindOptional:
		b.WriteString("?")
		t.Elem.write(b, visiting)
	case KindSequence:
		b.WriteString("[]")
		t.Elem.write(b, visiting)
	case KindMap:
		b.WriteString("map[string]")
		t.Elem.write(b, visiting)
	case KindEnum:
		if t.Name != "" {
			b.WriteString(t.Name)
			return
		}
		b.WriteString("enum(" + strings.Join(t.Variants, "|") + ")")
	case KindRecord:
		if t.Name != "" {
			b.WriteString(t.Name)
			return
		}
		if visiting[t] {
			b.WriteString("{...}")
			return
		}
		visiting[t] = true
		defer delete(visiting, t)
		b.WriteString("{")
		for i, f := range t.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name + " ")
			f.Type.write(b, visiting)
		}
		b.WriteString("}")
	}
}
