// Package invoke calls a Go function with arguments taken from an unordered
// bag of named values.
//
// Each parameter is looked up by name, converted against its descriptor and
// bound to the exact Go parameter type; the function is then called through
// reflection, so a single code path serves every arity.
package invoke
