package conversion

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/dyncall/descriptor"
	dschema "github.com/viant/dyncall/schema"
	schema "github.com/viant/mcp-protocol/schema"
)

func TestBuildTool(t *testing.T) {
	address := descriptor.Record("Address",
		descriptor.NewField("street", descriptor.String()),
		descriptor.NewField("zip", descriptor.String()),
	)
	params := []descriptor.Parameter{
		{Name: "name", Type: descriptor.String()},
		{Name: "age", Type: descriptor.Optional(descriptor.Integer())},
		{Name: "address", Type: address},
	}

	tool, err := BuildTool("fn-register", "registers a person", dschema.Generate(params))
	require.NoError(t, err)
	assert.EqualValues(t, "fn-register", tool.Name)
	assert.EqualValues(t, "registers a person", *tool.Description)
	assert.EqualValues(t, "object", tool.InputSchema.Type)
	assert.EqualValues(t, []string{"name", "address"}, tool.InputSchema.Required)
	assert.EqualValues(t, map[string]interface{}{"type": "integer"}, tool.InputSchema.Properties["age"])

	data, err := json.Marshal(tool.InputSchema.Properties["address"])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {"street": {"type": "string"}, "zip": {"type": "string"}},
		"required": ["street", "zip"]
	}`, string(data))
}

func TestInputSchema_Empty(t *testing.T) {
	actual, err := InputSchema(nil)
	require.NoError(t, err)
	assert.EqualValues(t, "object", actual.Type)

	actual, err = InputSchema(dschema.Generate(nil))
	require.NoError(t, err)
	assert.EqualValues(t, "object", actual.Type)
	assert.Empty(t, actual.Properties)
}

func TestTypeFromInputSchema(t *testing.T) {
	testCases := []struct {
		name         string
		schema       schema.ToolInputSchema
		expFieldInfo map[string]reflect.Type
	}{
		{
			name: "required field is a pointer",
			schema: schema.ToolInputSchema{
				Type:       "object",
				Properties: map[string]map[string]interface{}{"id": {"type": "string"}},
				Required:   []string{"id"},
			},
			expFieldInfo: map[string]reflect.Type{"Id": reflect.TypeOf((*string)(nil))},
		},
		{
			name: "optional fields are pointers",
			schema: schema.ToolInputSchema{
				Type: "object",
				Properties: map[string]map[string]interface{}{
					"name":   {"type": "string"},
					"active": {"type": "boolean"},
				},
				Required: []string{"name"},
			},
			expFieldInfo: map[string]reflect.Type{"Name": reflect.TypeOf((*string)(nil)), "Active": reflect.TypeOf((*bool)(nil))},
		},
		{
			name: "collections",
			schema: schema.ToolInputSchema{
				Type: "object",
				Properties: map[string]map[string]interface{}{
					"scores": {"type": "object", "additionalProperties": map[string]interface{}{"type": "number"}},
					"tags":   {"type": "array", "items": map[string]interface{}{"type": "string"}},
					"at":     {"type": "string", "format": "date-time"},
				},
				Required: []string{"scores", "tags", "at"},
			},
			expFieldInfo: map[string]reflect.Type{
				"Scores": reflect.TypeOf(&map[string]float64{}),
				"Tags":   reflect.TypeOf(&[]string{}),
				"At":     reflect.TypeOf(&time.Time{}),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rType, err := TypeFromInputSchema(tc.schema)
			require.NoError(t, err)
			assert.EqualValues(t, reflect.Struct, rType.Kind())

			for fieldName, expect := range tc.expFieldInfo {
				field, ok := rType.FieldByName(fieldName)
				if assert.True(t, ok, "expected field %s", fieldName) {
					assert.EqualValues(t, expect, field.Type)
				}
			}
		})
	}
}

func TestTypeFromInputSchema_RoundTrip(t *testing.T) {
	inputSchema := schema.ToolInputSchema{
		Type: "object",
		Properties: map[string]map[string]interface{}{
			"user": {
				"type": "object",
				"properties": map[string]interface{}{
					"id":   map[string]interface{}{"type": "integer"},
					"name": map[string]interface{}{"type": "string"},
				},
				"required": []interface{}{"id"},
			},
			"limit": {"type": "integer"},
		},
		Required: []string{"user"},
	}
	rType, err := TypeFromInputSchema(inputSchema)
	require.NoError(t, err)

	for _, payload := range []string{
		`{"user":{"id":0},"limit":0}`,
		`{"user":{"name":""}}`,
		`{"limit":1}`,
		`{}`,
	} {
		value := reflect.New(rType).Interface()
		require.NoError(t, json.Unmarshal([]byte(payload), value))
		data, err := json.Marshal(value)
		require.NoError(t, err)
		assert.JSONEq(t, payload, string(data))
	}
}

func TestTypeFromInputSchema_EmptyCollectionsSurvive(t *testing.T) {
	rType, err := TypeFromInputSchema(schema.ToolInputSchema{
		Type: "object",
		Properties: map[string]map[string]interface{}{
			"tags":  {"type": "array", "items": map[string]interface{}{"type": "string"}},
			"attrs": {"type": "object", "additionalProperties": map[string]interface{}{"type": "string"}},
		},
		Required: []string{"tags", "attrs"},
	})
	require.NoError(t, err)
	payload := `{"tags":[],"attrs":{}}`
	value := reflect.New(rType).Interface()
	require.NoError(t, json.Unmarshal([]byte(payload), value))
	data, err := json.Marshal(value)
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(data))
}

func TestTypeFromInputSchema_InvalidName(t *testing.T) {
	_, err := TypeFromInputSchema(schema.ToolInputSchema{
		Type:       "object",
		Properties: map[string]map[string]interface{}{"first-name": {"type": "string"}},
	})
	assert.Error(t, err)

	_, err = TypeFromInputSchema(schema.ToolInputSchema{
		Type:       "object",
		Properties: map[string]map[string]interface{}{"id": {"type": "string"}, "Id": {"type": "string"}},
	})
	assert.Error(t, err)
}
