// Package mcp exposes registered functions over the MCP protocol and as
// Fluxor workflow actions.  Its Service loads configuration, owns the function
// registry and builds the workflow runtime.
package mcp
