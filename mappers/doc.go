// Package mappers holds optional object mappers for the engine:
//
//   - Flatten maps structs to map[string]any with dotted keys and back.
//   - Format fills structs from map[string]string values under configured keys.
//
// FlatType builds a synthesized struct with one field per leaf of a nested struct, named the
// way the engine flattens member names, so a plain rule maps the nested type onto it.
//
// Register them with engine.WithObjectMappers; they are consulted before the built-in mappers.
package mappers
