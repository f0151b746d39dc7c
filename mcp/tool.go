package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/viant/dyncall/internal/conv"
	"github.com/viant/dyncall/mcp/matcher"
	"github.com/viant/dyncall/mcp/tool"
	"github.com/viant/dyncall/mcp/tool/conversion"
	"github.com/viant/dyncall/registry"
	"github.com/viant/fluxor/runtime/execution"
	"github.com/viant/jsonrpc"
	mcpschema "github.com/viant/mcp-protocol/schema"
	serverproto "github.com/viant/mcp-protocol/server"
)

// DefaultToolTimeout bounds a tool call made through the MCP handler.
const DefaultToolTimeout = 15 * time.Minute

// Tools returns an entry for every exposed function, sorted by tool name.
func (s *Service) Tools() serverproto.Tools {
	var result = make(serverproto.Tools, 0)
	for _, name := range s.ToolNames() {
		aTool, err := s.LookupTool(name)
		if err != nil {
			s.logger.WithField("tool", name).WithError(err).Warn("skipping tool")
			continue
		}
		result = append(result, aTool)
	}
	return result
}

// ToolNames returns exposed tool names, sorted.
func (s *Service) ToolNames() []string {
	var names []string
	for _, fnName := range s.registry.Names() {
		if matcher.MatchAny(s.config.Expose, fnName) {
			names = append(names, tool.NewName(s.config.Namespace, fnName).String())
		}
	}
	sort.Strings(names)
	return names
}

// MatchTools returns tools selected by pattern: "*" selects all, "ns/" every
// tool of a namespace, an exact tool name that single tool, anything else is
// a tool name prefix.
func (s *Service) MatchTools(pattern string) serverproto.Tools {
	tools := s.Tools()
	if pattern == "*" {
		return tools
	}
	canonical := tool.Canonical(pattern)
	for _, t := range tools {
		if t.Metadata.Name == pattern || t.Metadata.Name == canonical {
			return serverproto.Tools{t}
		}
	}
	prefix := pattern
	if strings.HasSuffix(pattern, "/") {
		prefix = tool.NewName(strings.TrimSuffix(pattern, "/"), "").String()
	}
	var result = make(serverproto.Tools, 0)
	for _, t := range tools {
		if matcher.Match(prefix, t.Metadata.Name) {
			result = append(result, t)
		}
	}
	return result
}

// lookupEntry resolves a tool name, in any Canonical form, to an exposed
// registry entry.
func (s *Service) lookupEntry(name string) (*registry.Entry, bool) {
	prefix := tool.NewName(s.config.Namespace, "").String()
	for _, candidate := range []string{name, tool.Canonical(name)} {
		fnName, ok := strings.CutPrefix(candidate, prefix)
		if !ok || !matcher.MatchAny(s.config.Expose, fnName) {
			continue
		}
		if entry, ok := s.registry.Lookup(fnName); ok {
			return entry, true
		}
	}
	return nil, false
}

// LookupTool returns the tool entry (metadata and handler) for name.
func (s *Service) LookupTool(name string) (*serverproto.ToolEntry, error) {
	entry, ok := s.lookupEntry(name)
	if !ok {
		return nil, fmt.Errorf("unknown tool: %v", name)
	}
	toolName := tool.NewName(s.config.Namespace, entry.Name).String()
	toolEntry := serverproto.ToolEntry{}
	var err error
	if toolEntry.Metadata, err = conversion.BuildTool(toolName, entry.Description, entry.Schema); err != nil {
		return nil, err
	}
	toolEntry.Handler = func(ctx context.Context, request *mcpschema.CallToolRequest) (*mcpschema.CallToolResult, *jsonrpc.Error) {
		output, err := s.ExecuteTool(ctx, toolName, request.Params.Arguments, DefaultToolTimeout)
		if errors.Is(err, registry.ErrNotFound) {
			return nil, jsonrpc.NewError(jsonrpc.MethodNotFound, err.Error(), nil)
		}
		res := &mcpschema.CallToolResult{}
		if err != nil {
			res.IsError = conv.Pointer[bool](true)
			res.Content = append(res.Content, mcpschema.CallToolResultContentElem{Type: "text", Text: err.Error()})
			return res, nil
		}
		text, err := toText(output)
		if err != nil {
			return nil, jsonrpc.NewError(jsonrpc.InternalError, err.Error(), nil)
		}
		res.Content = append(res.Content, mcpschema.CallToolResultContentElem{Type: "text", Text: text})
		return res, nil
	}
	return &toolEntry, nil
}

func toText(output interface{}) (string, error) {
	switch actual := output.(type) {
	case nil:
		return "", nil
	case string:
		return actual, nil
	case []byte:
		return string(actual), nil
	}
	data, err := json.Marshal(output)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(data), nil
}

// ToolMetadata returns description and input schema for a named tool. The
// second return value is false when the tool does not exist.
func (s *Service) ToolMetadata(name string) (string, interface{}, bool) {
	entry, ok := s.lookupEntry(name)
	if !ok {
		return "", nil, false
	}
	return entry.Description, entry.Schema, true
}

// ExecuteTool invokes the function behind a tool with the supplied arguments.
// A positive timeout bounds the context passed to the function.
func (s *Service) ExecuteTool(ctx context.Context, name string, args map[string]interface{}, timeout time.Duration) (interface{}, error) {
	entry, ok := s.lookupEntry(name)
	if !ok {
		return nil, fmt.Errorf("%w: %v", registry.ErrNotFound, name)
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return entry.Function.Invoke(ctx, args)
}

// ExecuteAction runs a Fluxor action (service/method) as an ad hoc execution
// on the workflow runtime; the service must be started.
func (s *Service) ExecuteAction(ctx context.Context, service, method string, args map[string]interface{}, timeout time.Duration) (interface{}, error) {
	exec, err := execution.NewAtHocExecution(service, method, args)
	if err != nil {
		return nil, err
	}
	waitFn, err := s.Workflow.Runtime.ScheduleExecution(ctx, exec)
	if err != nil {
		return nil, err
	}
	anExec, err := waitFn(timeout)
	if err != nil {
		return nil, err
	}
	if anExec.Error != "" {
		return nil, fmt.Errorf("%v/%v: %s", service, method, anExec.Error)
	}
	return anExec.Output, nil
}
