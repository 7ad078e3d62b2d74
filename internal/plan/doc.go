// Package plan selects how a value of one type is converted to another when no mapping
// rule covers the pair.
//
// The fallback cascade is an ordered list of rules, each tagged with a Strategy and an
// options.CategoryEnum switch. Select returns the first enabled rule that applies; the
// order never changes when categories are disabled.
//
//  1. identity        destination assignable from source
//  2. to_text         any non-string -> string type, canonical text
//  3. text_converter  string -> value type with a registered or built-in parser
//  4. optional_wrap   T -> *T
//  5. materialize     sequence of T -> new slice or array of T
//  6. parse           string -> numeric or bool kinds
//  7. value_convert   value type -> value type via Go conversion
//  8. unsupported     nothing applies
package plan
