package typesys

import "reflect"

// IsValueType reports whether values of t are copied on assignment and never nil.
// Strings are classified separately as textual.
func IsValueType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.Array, reflect.Struct:
		return true
	default:
		return false
	}
}

// IsTextual reports whether t is a string type.
func IsTextual(t reflect.Type) bool {
	return t.Kind() == reflect.String
}

// IsSequence reports whether t is a slice or an array.
func IsSequence(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

// IsNilable reports whether a value of t can be nil.
func IsNilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

// IsNil reports whether v is invalid or a nil value of a nilable kind.
func IsNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	return IsNilable(v.Type()) && v.IsNil()
}

// Indirect strips every pointer level of t.
func Indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t
}

// IsEmptyInterface reports whether t is an interface without methods.
func IsEmptyInterface(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.NumMethod() == 0
}
