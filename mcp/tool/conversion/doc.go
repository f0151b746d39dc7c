// Package conversion translates generated function schemas into MCP tool
// metadata, and MCP input schemas back into dynamic Go struct types used as
// workflow action inputs.
package conversion
