// Package registry keeps named functions prepared for dynamic invocation
// together with their input schemas.
package registry
