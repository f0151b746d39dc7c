package introspect

import (
	"context"
	"errors"
	htmltemplate "html/template"
	"net"
	"reflect"
	"testing"
	texttemplate "text/template"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/dyncall/descriptor"
)

type role string

func (role) Variants() []string { return []string{"admin", "user"} }

type level int

func (*level) Variants() []string { return []string{"low", "high"} }

func (l *level) UnmarshalText(text []byte) error {
	switch string(text) {
	case "low":
		*l = 0
	case "high":
		*l = 1
	default:
		return errors.New("invalid level")
	}
	return nil
}

type badEnum int

func (badEnum) Variants() []string { return []string{"a"} }

type address struct {
	Street string `json:"street" description:"street line"`
	Zip    string `json:"zip"`
}

type person struct {
	Name    string   `json:"name"`
	Address *address `json:"address,omitempty"`
	Ignored string   `json:"-"`
	secret  string
}

type audit struct {
	CreatedBy string
}

type document struct {
	audit
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type node struct {
	Value    int    `json:"value"`
	Children []node `json:"children"`
	Parent   *node  `json:"parent"`
	Index    map[string]*node
}

type loop []loop

func TestType(t *testing.T) {
	testCases := []struct {
		name   string
		typ    reflect.Type
		expect string
	}{
		{name: "string", typ: reflect.TypeOf(""), expect: "string"},
		{name: "int8", typ: reflect.TypeOf(int8(0)), expect: "integer"},
		{name: "uint64", typ: reflect.TypeOf(uint64(0)), expect: "integer"},
		{name: "float32", typ: reflect.TypeOf(float32(0)), expect: "float"},
		{name: "bool", typ: reflect.TypeOf(true), expect: "boolean"},
		{name: "pointer", typ: reflect.TypeOf((*int)(nil)), expect: "?integer"},
		{name: "slice", typ: reflect.TypeOf([]string{}), expect: "[]string"},
		{name: "array", typ: reflect.TypeOf([2]float64{}), expect: "[]float"},
		{name: "map", typ: reflect.TypeOf(map[string][]int{}), expect: "map[string][]integer"},
		{name: "time", typ: reflect.TypeOf(time.Time{}), expect: "string(date-time)"},
		{name: "text unmarshaler", typ: reflect.TypeOf(net.IP{}), expect: "string"},
		{name: "string enum", typ: reflect.TypeOf(role("")), expect: "introspect.role"},
		{name: "text enum", typ: reflect.TypeOf(level(0)), expect: "introspect.level"},
		{name: "record", typ: reflect.TypeOf(person{}), expect: "introspect.person"},
		{name: "anonymous record", typ: reflect.TypeOf(struct {
			ID int `json:"id"`
		}{}), expect: "{id integer}"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := Type(tc.typ)
			require.NoError(t, err)
			assert.EqualValues(t, tc.expect, actual.String())
		})
	}
}

func TestType_Enum(t *testing.T) {
	actual, err := Type(reflect.TypeOf(role("")))
	require.NoError(t, err)
	assert.EqualValues(t, descriptor.KindEnum, actual.Kind)
	assert.EqualValues(t, []string{"admin", "user"}, actual.Variants)

	actual, err = Type(reflect.TypeOf(level(0)))
	require.NoError(t, err)
	assert.EqualValues(t, []string{"low", "high"}, actual.Variants)
}

func TestType_Record(t *testing.T) {
	actual, err := Type(reflect.TypeOf(person{}))
	require.NoError(t, err)
	require.EqualValues(t, descriptor.KindRecord, actual.Kind)
	require.Len(t, actual.Fields, 2)
	assert.EqualValues(t, "name", actual.Fields[0].Name)
	assert.EqualValues(t, "address", actual.Fields[1].Name)

	addr := actual.Fields[1].Type
	require.True(t, addr.IsOptional())
	assert.EqualValues(t, "github.com/viant/dyncall/introspect.address", addr.Elem.Name)
	assert.EqualValues(t, "street line", addr.Elem.Fields[0].Description)
}

func TestName(t *testing.T) {
	assert.EqualValues(t, "", Name(reflect.TypeOf([]int{})))
	assert.EqualValues(t, "string", Name(reflect.TypeOf("")))
	assert.EqualValues(t, "time.Duration", Name(reflect.TypeOf(time.Second)))
	assert.EqualValues(t, "text/template.Template", Name(reflect.TypeOf(texttemplate.Template{})))
	assert.NotEqualValues(t, Name(reflect.TypeOf(texttemplate.Template{})), Name(reflect.TypeOf(htmltemplate.Template{})))
}

func TestType_Embedded(t *testing.T) {
	actual, err := Type(reflect.TypeOf(document{}))
	require.NoError(t, err)
	var names []string
	for _, f := range actual.Fields {
		names = append(names, f.Name)
	}
	assert.EqualValues(t, []string{"id", "title", "CreatedBy"}, names)

	fields := StructFields(reflect.TypeOf(document{}))
	assert.EqualValues(t, []int{0, 0}, fields[2].Index)
}

func TestType_Recursive(t *testing.T) {
	actual, err := Type(reflect.TypeOf(node{}))
	require.NoError(t, err)
	children, ok := actual.Field("children")
	require.True(t, ok)
	assert.Same(t, actual, children.Type.Elem)
	parent, ok := actual.Field("parent")
	require.True(t, ok)
	assert.Same(t, actual, parent.Type.Elem)
	index, ok := actual.Field("Index")
	require.True(t, ok)
	assert.Same(t, actual, index.Type.Elem.Elem)
}

func TestType_Unsupported(t *testing.T) {
	testCases := []struct {
		name string
		typ  reflect.Type
	}{
		{name: "func", typ: reflect.TypeOf(func() {})},
		{name: "chan", typ: reflect.TypeOf(make(chan int))},
		{name: "any", typ: reflect.TypeOf((*any)(nil)).Elem()},
		{name: "complex", typ: reflect.TypeOf(complex64(0))},
		{name: "uintptr", typ: reflect.TypeOf(uintptr(0))},
		{name: "int keyed map", typ: reflect.TypeOf(map[int]string{})},
		{name: "nested func", typ: reflect.TypeOf(struct{ Fn func() }{})},
		{name: "non string enum", typ: reflect.TypeOf(badEnum(0))},
		{name: "self slice", typ: reflect.TypeOf(loop{})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Type(tc.typ)
			assert.ErrorIs(t, err, ErrUnsupportedParameterType)
		})
	}
}

func TestFunction(t *testing.T) {
	fn := func(ctx context.Context, name string, age *int, r role, tags ...string) (string, error) {
		return "", nil
	}
	sig, err := Function(fn, []string{"name", "age", "role", "tags"}, WithDefault("tags", []any{"x"}))
	require.NoError(t, err)

	assert.True(t, sig.HasContext)
	assert.True(t, sig.Variadic)
	assert.EqualValues(t, ResultValueError, sig.Results)
	assert.EqualValues(t, []string{"name", "age", "role", "tags"}, sig.Parameters.Names())
	assert.EqualValues(t, "?integer", sig.Parameters[1].Type.String())
	assert.EqualValues(t, "[]string", sig.Parameters[3].Type.String())
	assert.True(t, sig.Parameters[3].HasDefault)
	assert.False(t, sig.Parameters[0].HasDefault)
	assert.EqualValues(t, reflect.TypeOf([]string{}), sig.In[3])
}

func TestFunction_ResultShapes(t *testing.T) {
	testCases := []struct {
		name   string
		fn     any
		expect ResultShape
	}{
		{name: "none", fn: func() {}, expect: ResultNone},
		{name: "value", fn: func() int { return 0 }, expect: ResultValue},
		{name: "error", fn: func() error { return nil }, expect: ResultError},
		{name: "value error", fn: func() (int, error) { return 0, nil }, expect: ResultValueError},
		{name: "two values", fn: func() (int, int) { return 0, 0 }, expect: ResultOther},
		{name: "three", fn: func() (int, int, error) { return 0, 0, nil }, expect: ResultOther},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sig, err := Function(tc.fn, nil)
			require.NoError(t, err)
			assert.EqualValues(t, tc.expect, sig.Results)
		})
	}
}

func TestFunction_Errors(t *testing.T) {
	_, err := Function(42, nil)
	assert.ErrorIs(t, err, ErrNotFunction)

	_, err = Function(nil, nil)
	assert.ErrorIs(t, err, ErrNotFunction)

	twoArgs := func(a string, b int) {}
	_, err = Function(twoArgs, []string{"a"})
	assert.ErrorIs(t, err, ErrParameterNames)
	_, err = Function(twoArgs, []string{"a", "a"})
	assert.ErrorIs(t, err, ErrParameterNames)
	_, err = Function(twoArgs, []string{"a", ""})
	assert.ErrorIs(t, err, ErrParameterNames)
	_, err = Function(twoArgs, []string{"a", "b"}, WithDefault("c", 1))
	assert.ErrorIs(t, err, ErrParameterNames)

	_, err = Function(func(cb func()) {}, []string{"cb"})
	require.ErrorIs(t, err, ErrUnsupportedParameterType)
	var unsupported *UnsupportedTypeError
	require.True(t, errors.As(err, &unsupported))
	assert.EqualValues(t, "cb", unsupported.Parameter)
}

func TestSignature_WithDefaults(t *testing.T) {
	sig, err := Function(func(limit int, offset int) {}, []string{"limit", "offset"})
	require.NoError(t, err)

	withDefaults, err := sig.WithDefaults(map[string]any{"offset": 0})
	require.NoError(t, err)
	assert.True(t, withDefaults.Parameters[1].HasDefault)
	assert.False(t, sig.Parameters[1].HasDefault)

	_, err = sig.WithDefaults(map[string]any{"page": 1})
	assert.ErrorIs(t, err, ErrParameterNames)
}
