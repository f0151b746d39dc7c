// Package tool names MCP tools exposed for registered functions.  A tool name
// joins a namespace and a function name with a dash, e.g. "fn-greet".
package tool
