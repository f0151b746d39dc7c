// Package logging builds the logrus logger shared by the registry, the
// dispatcher and the MCP service from the configured level and format.
package logging
