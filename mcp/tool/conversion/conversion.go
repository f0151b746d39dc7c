package conversion

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"time"
	"unicode"

	"github.com/invopop/jsonschema"
	schema "github.com/viant/mcp-protocol/schema"
	"github.com/viant/x"
)

// InputSchema converts a generated function schema into the MCP tool input
// schema.
func InputSchema(source *jsonschema.Schema) (schema.ToolInputSchema, error) {
	var ret schema.ToolInputSchema
	if source == nil {
		ret.Type = "object"
		return ret, nil
	}
	data, err := json.Marshal(source)
	if err != nil {
		return ret, fmt.Errorf("failed to encode input schema: %w", err)
	}
	if err = json.Unmarshal(data, &ret); err != nil {
		return ret, fmt.Errorf("failed to decode input schema: %w", err)
	}
	if ret.Type == "" {
		ret.Type = "object"
	}
	return ret, nil
}

// BuildTool builds MCP tool metadata for a function.
func BuildTool(name, description string, source *jsonschema.Schema) (schema.Tool, error) {
	inputSchema, err := InputSchema(source)
	if err != nil {
		return schema.Tool{}, fmt.Errorf("failed to build input schema for %s: %w", name, err)
	}
	desc := description
	return schema.Tool{Name: name, Description: &desc, InputSchema: inputSchema}, nil
}

// typeRegistry holds dynamic Go types generated from JSON Schemas.
var typeRegistry = x.NewRegistry()

// Registry returns the registry of dynamic types.
func Registry() *x.Registry {
	return typeRegistry
}

// RegisterType registers a Go type for schema-based conversion.
func RegisterType(t reflect.Type, options ...x.Option) {
	typeRegistry.Register(x.NewType(t, options...))
}

// TypeFromInputSchema converts a tool input schema into a dynamically
// generated Go struct type, one field per property tagged with the property
// name.  Every field is a pointer with omitempty, required or not, so that an
// absent value stays absent after a JSON round trip and required-ness is
// left to the argument converter.
func TypeFromInputSchema(inputSchema schema.ToolInputSchema) (reflect.Type, error) {
	if len(inputSchema.Properties) == 0 {
		return reflect.StructOf([]reflect.StructField{}), nil
	}

	fields, err := buildFields(inputSchema.Properties)
	if err != nil {
		return nil, err
	}

	t := reflect.StructOf(fields)
	RegisterType(t)
	return t, nil
}

func buildFields(props map[string]map[string]interface{}) ([]reflect.StructField, error) {
	keys := make([]string, 0, len(props))
	for name := range props {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	fieldNames := make(map[string]string, len(keys))
	var fields []reflect.StructField
	for _, name := range keys {
		fieldName, err := exportedName(name)
		if err != nil {
			return nil, err
		}
		if prev, ok := fieldNames[fieldName]; ok {
			return nil, fmt.Errorf("properties %q and %q map to the same field %v", prev, name, fieldName)
		}
		fieldNames[fieldName] = name

		fieldType, err := goTypeFromDef(props[name])
		if err != nil {
			return nil, fmt.Errorf("failed to determine type for field %q: %w", name, err)
		}
		if fieldType.Kind() != reflect.Interface {
			fieldType = reflect.PointerTo(fieldType)
		}
		fields = append(fields, reflect.StructField{
			Name: fieldName,
			Type: fieldType,
			Tag:  reflect.StructTag(fmt.Sprintf("json:%q", name+",omitempty")),
		})
	}
	return fields, nil
}

// exportedName turns a property name into an exported Go identifier.
func exportedName(name string) (string, error) {
	runes := []rune(name)
	if len(runes) == 0 || !unicode.IsLetter(runes[0]) {
		return "", fmt.Errorf("property %q is not a valid field name", name)
	}
	for _, r := range runes[1:] {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", fmt.Errorf("property %q is not a valid field name", name)
		}
	}
	runes[0] = unicode.ToUpper(runes[0])
	if !unicode.IsUpper(runes[0]) {
		return "", fmt.Errorf("property %q cannot be exported", name)
	}
	return string(runes), nil
}

func goTypeFromDef(def map[string]interface{}) (reflect.Type, error) {
	rawType := def["type"]
	var typeStr string
	switch v := rawType.(type) {
	case string:
		typeStr = v
	case []interface{}:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				typeStr = s
			}
		}
	}
	switch typeStr {
	case "string":
		if format, ok := def["format"].(string); ok && format == "date-time" {
			return reflect.TypeOf(time.Time{}), nil
		}
		return reflect.TypeOf(""), nil
	case "integer":
		return reflect.TypeOf(int64(0)), nil
	case "number":
		return reflect.TypeOf(float64(0)), nil
	case "boolean":
		return reflect.TypeOf(true), nil
	case "object":
		raw, hasProperties := def["properties"].(map[string]interface{})
		if additional, ok := def["additionalProperties"].(map[string]interface{}); ok && !hasProperties {
			valueType, err := goTypeFromDef(additional)
			if err != nil {
				return nil, err
			}
			return reflect.MapOf(reflect.TypeOf(""), valueType), nil
		}
		if !hasProperties {
			return reflect.TypeOf(map[string]interface{}{}), nil
		}
		nested := map[string]map[string]interface{}{}
		for k, v := range raw {
			if m, ok := v.(map[string]interface{}); ok {
				nested[k] = m
			}
		}
		fields, err := buildFields(nested)
		if err != nil {
			return nil, err
		}
		nestedType := reflect.StructOf(fields)
		RegisterType(nestedType)
		return nestedType, nil
	case "array":
		if raw, ok := def["items"].(map[string]interface{}); ok {
			itemType, err := goTypeFromDef(raw)
			if err != nil {
				return nil, err
			}
			return reflect.SliceOf(itemType), nil
		}
		return reflect.TypeOf([]interface{}{}), nil
	default:
		return reflect.TypeOf(new(interface{})).Elem(), nil
	}
}
