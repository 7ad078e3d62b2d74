// Package generic provides placeholder type arguments used to declare open generic mapping rules.
//
// Go has no runtime representation of an uninstantiated generic type, so an open rule is declared
// by instantiating the generic types with placeholders:
//
//	engine.CreateMap[Box[generic.T1], Wrapper[generic.T1]](profile)
//
// The engine binds every placeholder against the arguments of a requested closed pair,
// e.g. Box[int] -> Wrapper[int].
package generic

import (
	"reflect"
	"strings"
)

type (
	T1 struct{}
	T2 struct{}
	T3 struct{}
	T4 struct{}
)

type carrier[T any] struct{}

var placeholders = []struct {
	typ   reflect.Type
	token string
}{
	{reflect.TypeOf(T1{}), tokenOf(reflect.TypeOf(carrier[T1]{}))},
	{reflect.TypeOf(T2{}), tokenOf(reflect.TypeOf(carrier[T2]{}))},
	{reflect.TypeOf(T3{}), tokenOf(reflect.TypeOf(carrier[T3]{}))},
	{reflect.TypeOf(T4{}), tokenOf(reflect.TypeOf(carrier[T4]{}))},
}

// tokenOf extracts the rendering of the single type argument of an instantiated carrier.
func tokenOf(t reflect.Type) string {
	name := t.Name()
	open := strings.IndexByte(name, '[')

	return name[open+1 : len(name)-1]
}

// IsPlaceholder reports whether t is one of T1..T4.
func IsPlaceholder(t reflect.Type) bool {
	for _, p := range placeholders {
		if p.typ == t {
			return true
		}
	}

	return false
}

// Tokens returns the text each placeholder takes inside the name of an instantiated generic type.
func Tokens() []string {
	tokens := make([]string, len(placeholders))
	for i, p := range placeholders {
		tokens[i] = p.token
	}

	return tokens
}
