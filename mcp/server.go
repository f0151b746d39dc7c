package mcp

import (
	"context"

	"github.com/viant/jsonrpc/transport"
	protocolclient "github.com/viant/mcp-protocol/client"
	"github.com/viant/mcp-protocol/logger"
	mcpschema "github.com/viant/mcp-protocol/schema"
	serverproto "github.com/viant/mcp-protocol/server"
)

// NewHandler returns an MCP server handler serving exposed functions as tools.
// The tool set is taken per connection; a function removed afterwards fails
// with MethodNotFound when called.
func (s *Service) NewHandler(ctx context.Context, notifier transport.Notifier, l logger.Logger, cli protocolclient.Operations) (serverproto.Handler, error) {
	handler := serverproto.NewDefaultHandler(notifier, l, cli)
	handler.Registry.Methods.Put(mcpschema.MethodToolsList, true)
	handler.Registry.Methods.Put(mcpschema.MethodToolsCall, true)
	tools := s.Tools()
	for _, entry := range tools {
		handler.Registry.RegisterTool(entry)
	}
	s.logger.WithField("tools", len(tools)).Debug("mcp session opened")
	return handler, nil
}
