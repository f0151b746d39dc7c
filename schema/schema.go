// Package schema turns descriptors into self-contained JSON schema documents.
// Every nested record and enumeration is inlined at its use site, the output
// never carries $ref or $defs.
package schema

import (
	"github.com/invopop/jsonschema"
	"github.com/viant/dyncall/descriptor"
)

const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// Generate builds an object schema with one property per parameter, in
// declaration order.  Parameters whose type is not optional are required.
func Generate(params []descriptor.Parameter) *jsonschema.Schema {
	g := newGenerator()
	ret := &jsonschema.Schema{Type: TypeObject, Properties: jsonschema.NewProperties()}
	for _, param := range params {
		prop := g.node(param.Type)
		if param.HasDefault {
			prop.Default = param.Default
		}
		ret.Properties.Set(param.Name, prop)
		if !param.Type.IsOptional() {
			ret.Required = append(ret.Required, param.Name)
		}
	}
	return ret
}

// For builds the schema of a single descriptor.
func For(t *descriptor.Type) *jsonschema.Schema {
	return newGenerator().node(t)
}

type generator struct {
	// records and enums expanded on the current path, by name
	active map[string]bool
	// unnamed ones, by identity
	anonymous map[*descriptor.Type]bool
}

func newGenerator() *generator {
	return &generator{active: map[string]bool{}, anonymous: map[*descriptor.Type]bool{}}
}

func (g *generator) node(t *descriptor.Type) *jsonschema.Schema {
	switch t.Kind {
	case descriptor.KindPrimitive:
		return primitive(t)
	case descriptor.KindOptional:
		return g.node(t.Elem)
	case descriptor.KindSequence:
		return &jsonschema.Schema{Type: TypeArray, Items: g.node(t.Elem)}
	case descriptor.KindMap:
		return &jsonschema.Schema{Type: TypeObject, AdditionalProperties: g.node(t.Elem)}
	case descriptor.KindEnum:
		if g.enter(t) {
			defer g.leave(t)
		} else {
			return placeholder()
		}
		enum := make([]any, len(t.Variants))
		for i, v := range t.Variants {
			enum[i] = v
		}
		return &jsonschema.Schema{Type: TypeString, Enum: enum}
	case descriptor.KindRecord:
		if g.enter(t) {
			defer g.leave(t)
		} else {
			return placeholder()
		}
		return g.record(t)
	}
	return placeholder()
}

func (g *generator) record(t *descriptor.Type) *jsonschema.Schema {
	ret := &jsonschema.Schema{Type: TypeObject, Properties: jsonschema.NewProperties()}
	for _, field := range t.Fields {
		prop := g.node(field.Type)
		if field.Description != "" {
			prop.Description = field.Description
		}
		ret.Properties.Set(field.Name, prop)
		if !field.Type.IsOptional() {
			ret.Required = append(ret.Required, field.Name)
		}
	}
	return ret
}

// enter reports whether t may be expanded, i.e. it is not already being
// expanded further up the current path.
func (g *generator) enter(t *descriptor.Type) bool {
	if t.Name == "" {
		if g.anonymous[t] {
			return false
		}
		g.anonymous[t] = true
		return true
	}
	if g.active[t.Name] {
		return false
	}
	g.active[t.Name] = true
	return true
}

func (g *generator) leave(t *descriptor.Type) {
	if t.Name == "" {
		delete(g.anonymous, t)
		return
	}
	delete(g.active, t.Name)
}

func primitive(t *descriptor.Type) *jsonschema.Schema {
	ret := &jsonschema.Schema{Format: t.Format}
	switch t.Primitive {
	case descriptor.PrimitiveString:
		ret.Type = TypeString
	case descriptor.PrimitiveInteger:
		ret.Type = TypeInteger
	case descriptor.PrimitiveFloat:
		ret.Type = TypeNumber
	case descriptor.PrimitiveBoolean:
		ret.Type = TypeBoolean
	}
	return ret
}

func placeholder() *jsonschema.Schema {
	return &jsonschema.Schema{Type: TypeObject}
}
