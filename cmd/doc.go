// Package cmd implements the command-line interface for a program embedding
// registered functions.  Each file registers a single sub-command (list-tools,
// tool, function, exec, serve, run, list-actions); shared plumbing such as
// configuration loading and service initialisation lives in shared.go.
package cmd
