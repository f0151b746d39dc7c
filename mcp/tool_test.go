package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/dyncall/convert"
	"github.com/viant/dyncall/mcp/config"
	"github.com/viant/dyncall/registry"
	"github.com/viant/jsonrpc"
	mcp "github.com/viant/mcp"
	mcpschema "github.com/viant/mcp-protocol/schema"
	"github.com/viant/mcp/client"
)

type Role string

func (Role) Variants() []string { return []string{"admin", "user"} }

type Address struct {
	Street string `json:"street"`
	Zip    string `json:"zip"`
}

type Person struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

func greet(name string, age *int, role Role) string {
	return name + ":" + string(role)
}

func newService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{
		WithFunction("greet", greet, registry.WithParameters("name", "age", "role"), registry.WithDescription("greets a user")),
		WithFunction("register", func(ctx context.Context, p Person) (Person, error) {
			if p.Name == "" {
				return Person{}, errors.New("name was empty")
			}
			return p, nil
		}, registry.WithParameters("person")),
		WithFunction("wait", func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
	}, opts...)
	svc, err := New(context.Background(), opts...)
	require.NoError(t, err)
	return svc
}

func TestService_Tools(t *testing.T) {
	svc := newService(t)
	assert.EqualValues(t, []string{"fn-greet", "fn-register", "fn-wait"}, svc.ToolNames())

	tools := svc.Tools()
	require.Len(t, tools, 3)
	greetTool := tools[0]
	assert.EqualValues(t, "fn-greet", greetTool.Metadata.Name)
	assert.EqualValues(t, "greets a user", *greetTool.Metadata.Description)
	assert.EqualValues(t, []string{"name", "role"}, greetTool.Metadata.InputSchema.Required)
	assert.EqualValues(t, []interface{}{"admin", "user"}, greetTool.Metadata.InputSchema.Properties["role"]["enum"])

	for _, te := range tools {
		entry, err := svc.LookupTool(te.Metadata.Name)
		if assert.NoError(t, err, "LookupTool(%q) returned error", te.Metadata.Name) {
			assert.EqualValues(t, te.Metadata.Name, entry.Metadata.Name)
		}
	}
	_, err := svc.LookupTool("fn-missing")
	assert.Error(t, err)
}

func TestService_Expose(t *testing.T) {
	svc := newService(t, WithConfig(&config.Config{Namespace: "api", Expose: []string{"gr", "reg"}}))
	assert.EqualValues(t, []string{"api-greet", "api-register"}, svc.ToolNames())

	_, _, ok := svc.ToolMetadata("api-wait")
	assert.False(t, ok)
	_, err := svc.ExecuteTool(context.Background(), "api-wait", nil, 0)
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestService_MatchTools(t *testing.T) {
	svc := newService(t)

	testCases := []struct {
		pattern string
		expect  []string
	}{
		{pattern: "*", expect: []string{"fn-greet", "fn-register", "fn-wait"}},
		{pattern: "fn/", expect: []string{"fn-greet", "fn-register", "fn-wait"}},
		{pattern: "fn-greet", expect: []string{"fn-greet"}},
		{pattern: "fn.register", expect: []string{"fn-register"}},
		{pattern: "fn-re", expect: []string{"fn-register"}},
		{pattern: "other/", expect: nil},
	}
	for _, tc := range testCases {
		t.Run(tc.pattern, func(t *testing.T) {
			var actual []string
			for _, te := range svc.MatchTools(tc.pattern) {
				actual = append(actual, te.Metadata.Name)
			}
			assert.EqualValues(t, tc.expect, actual)
		})
	}
}

func TestService_ToolMetadata(t *testing.T) {
	svc := newService(t)
	description, inputSchema, ok := svc.ToolMetadata("fn/greet")
	require.True(t, ok)
	assert.EqualValues(t, "greets a user", description)
	data, err := json.Marshal(inputSchema)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer"},
			"role": {"type": "string", "enum": ["admin", "user"]}
		},
		"required": ["name", "role"]
	}`, string(data))
}

func TestService_ExecuteTool(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	output, err := svc.ExecuteTool(ctx, "fn-greet", map[string]interface{}{"name": "Ava", "role": "admin"}, time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, "Ava:admin", output)

	_, err = svc.ExecuteTool(ctx, "fn-greet", map[string]interface{}{"name": "Ava", "role": "guest"}, time.Minute)
	assert.ErrorIs(t, err, convert.ErrUnknownEnumVariant)

	_, err = svc.ExecuteTool(ctx, "fn-register", map[string]interface{}{
		"person": map[string]interface{}{"name": "Ava", "address": map[string]interface{}{"zip": "00000"}},
	}, time.Minute)
	assert.ErrorIs(t, err, convert.ErrMissingRequiredField)
	assert.Contains(t, err.Error(), "person.address.street")

	_, err = svc.ExecuteTool(ctx, "fn-wait", nil, 10*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestService_Server(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	cli := newClient(t, ctx, svc)

	listed, err := cli.ListTools(ctx, nil)
	require.Nil(t, err)
	var names []string
	for _, aTool := range listed.Tools {
		names = append(names, aTool.Name)
	}
	assert.ElementsMatch(t, []string{"fn-greet", "fn-register", "fn-wait"}, names)

	res, err := cli.CallTool(ctx, &mcpschema.CallToolRequestParams{
		Name:      "fn-register",
		Arguments: mcpschema.CallToolRequestParamsArguments{"person": map[string]interface{}{"name": "Bo", "address": map[string]interface{}{"street": "Main", "zip": "1"}}},
	})
	require.Nil(t, err)
	require.Len(t, res.Content, 1)
	assert.JSONEq(t, `{"name":"Bo","address":{"street":"Main","zip":"1"}}`, res.Content[0].Text)
	assert.True(t, res.IsError == nil || !*res.IsError)

	res, err = cli.CallTool(ctx, &mcpschema.CallToolRequestParams{
		Name:      "fn-greet",
		Arguments: mcpschema.CallToolRequestParamsArguments{"name": "Bo", "role": "guest"},
	})
	require.Nil(t, err)
	require.NotNil(t, res.IsError)
	assert.True(t, *res.IsError)
	assert.Contains(t, res.Content[0].Text, `"guest" is not one of [admin, user]`)

	res, err = cli.CallTool(ctx, &mcpschema.CallToolRequestParams{
		Name:      "fn-register",
		Arguments: mcpschema.CallToolRequestParamsArguments{"person": map[string]interface{}{"address": map[string]interface{}{"street": "Main", "zip": "1"}}},
	})
	require.Nil(t, err)
	require.NotNil(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "person.name")
}

func TestService_Server_RemovedFunction(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	cli := newClient(t, ctx, svc)

	call := func(name string) (*mcpschema.CallToolResult, error) {
		return cli.CallTool(ctx, &mcpschema.CallToolRequestParams{
			Name:      name,
			Arguments: mcpschema.CallToolRequestParamsArguments{"name": "Bo", "role": "user"},
		})
	}
	res, err := call("fn-greet")
	require.Nil(t, err)
	require.Len(t, res.Content, 1)
	assert.EqualValues(t, "Bo:user", res.Content[0].Text)

	require.True(t, svc.Registry().Remove("greet"))
	_, err = call("fn-greet")
	require.NotNil(t, err)
	var rpcErr *jsonrpc.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.EqualValues(t, jsonrpc.MethodNotFound, rpcErr.Code)
	assert.Contains(t, rpcErr.Message, registry.ErrNotFound.Error())

	_, err = call("fn-unknown")
	require.True(t, errors.As(err, &rpcErr))
	assert.EqualValues(t, jsonrpc.MethodNotFound, rpcErr.Code)
}

func TestService_Server_NoTools(t *testing.T) {
	svc, err := New(context.Background())
	require.NoError(t, err)
	ctx := context.Background()
	cli := newClient(t, ctx, svc)
	listed, err := cli.ListTools(ctx, nil)
	require.Nil(t, err)
	assert.Empty(t, listed.Tools)
}

func newClient(t *testing.T, ctx context.Context, svc *Service) client.Interface {
	t.Helper()
	srv, err := mcp.NewServer(svc.NewHandler, nil)
	require.NoError(t, err)
	cli := srv.AsClient(ctx)
	_, err = cli.Initialize(ctx)
	require.Nil(t, err)
	return cli
}

func TestService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	require.NotNil(t, svc.WorkflowService())
	require.NotNil(t, svc.WorkflowRuntime())
	assert.NoError(t, svc.Start(ctx))
	assert.NoError(t, svc.Start(ctx))
	assert.NoError(t, svc.Shutdown(ctx))
	assert.NoError(t, svc.Shutdown(ctx))
}

func TestService_InvalidFunction(t *testing.T) {
	_, err := New(context.Background(), WithFunction("bad", func(cb func()) {}, registry.WithParameters("cb")))
	assert.Error(t, err)

	_, err = New(context.Background(), WithConfig(&config.Config{Namespace: "a-b"}))
	assert.Error(t, err)
}
