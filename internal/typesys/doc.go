// Package typesys classifies runtime types for the mapping engine.
//
// It walks type ancestries (embedded structs and known interfaces), recognizes
// instantiations of generic types and binds placeholder arguments, and builds
// accessors that read members of a value by name.
package typesys
