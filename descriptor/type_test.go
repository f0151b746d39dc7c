package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestType_String(t *testing.T) {
	node := Record("tree.Node")
	node.Fields = []Field{
		NewField("value", Integer()),
		NewField("children", Sequence(node)),
	}

	testCases := []struct {
		name   string
		typ    *Type
		expect string
	}{
		{name: "primitive", typ: String(), expect: "string"},
		{name: "date-time", typ: DateTime(), expect: "string(date-time)"},
		{name: "optional", typ: Optional(Integer()), expect: "?integer"},
		{name: "sequence", typ: Sequence(Float()), expect: "[]float"},
		{name: "map", typ: Map(Boolean()), expect: "map[string]boolean"},
		{name: "named enum", typ: Enum("Role", "admin", "user"), expect: "Role"},
		{name: "anonymous enum", typ: Enum("", "a", "b"), expect: "enum(a|b)"},
		{name: "named record", typ: node, expect: "tree.Node"},
		{
			name:   "anonymous record",
			typ:    Record("", NewField("id", Integer()), NewField("next", node)),
			expect: "{id integer, next tree.Node}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.EqualValues(t, tc.expect, tc.typ.String())
		})
	}
}

func TestType_Lookups(t *testing.T) {
	person := Record("Person", NewField("name", String()), NewField("age", Optional(Integer())))
	field, ok := person.Field("age")
	if assert.True(t, ok) {
		assert.True(t, field.Type.IsOptional())
	}
	_, ok = person.Field("Age")
	assert.False(t, ok)

	role := Enum("Role", "admin", "user")
	assert.True(t, role.HasVariant("admin"))
	assert.False(t, role.HasVariant("Admin"))
}

func TestPath(t *testing.T) {
	root := Path{"items"}
	first := root.Index(0)
	second := root.Index(1)
	assert.EqualValues(t, Path{"items", "0"}, first)
	assert.EqualValues(t, Path{"items", "1"}, second)
	assert.EqualValues(t, "items.1", second.String())
	assert.EqualValues(t, "$", Path{}.String())
}

func TestParameters(t *testing.T) {
	params := Parameters{
		{Name: "name", Type: String()},
		{Name: "age", Type: Optional(Integer())},
	}
	assert.EqualValues(t, []string{"name", "age"}, params.Names())
	assert.NotNil(t, params.Lookup("age"))
	assert.Nil(t, params.Lookup("role"))
}
