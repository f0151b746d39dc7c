// Package descriptor defines the language-neutral vocabulary used to describe
// the shape of a function parameter: primitives, optionals, sequences,
// string-keyed maps, records and enumerations.  Every other package of
// dyncall (introspection, schema generation, conversion and invocation) talks
// about types exclusively through *Type.
package descriptor
