// Package synth creates struct types at runtime.
//
// A Factory turns a description (name, optional base struct, interfaces and an ordered list of
// properties) into a *Type. The Go type behind it is built with reflect.StructOf: the base is
// embedded as the first field and every property becomes a field in declaration order.
// Read-only properties can be read through Get but Set refuses them.
//
// Methods cannot be added to a synthesized type, so every requested interface must already be
// implemented by a pointer to the base.
package synth
