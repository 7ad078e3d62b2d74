package match

import (
	"reflect"
)

// TypeCompatibility represents the level of compatibility between two types.
type TypeCompatibility int

const (
	// TypeIncompatible means the types cannot be converted.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means conversion requires a mapping rule or a fallback conversion.
	TypeNeedsTransform
	// TypeConvertible means types are convertible using Go's type conversion.
	TypeConvertible
	// TypeAssignable means the source type can be directly assigned to the target.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

const (
	VerdictIdentical      = "identical"
	VerdictAssignable     = "assignable"
	VerdictConvertible    = "convertible"
	VerdictNeedsTransform = "needs_transform"
	VerdictIncompatible   = "incompatible"
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeConvertible:
		return VerdictConvertible
	case TypeNeedsTransform:
		return VerdictNeedsTransform
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return "unknown"
	}
}

// ScoreTypeCompatibility determines how directly a source value can become a target value.
func ScoreTypeCompatibility(source, target reflect.Type) TypeCompatibility {
	switch {
	case source == nil || target == nil:
		return TypeIncompatible
	case source == target:
		return TypeIdentical
	case source.AssignableTo(target):
		return TypeAssignable
	case source.ConvertibleTo(target) && source.Kind() != reflect.Ptr:
		return TypeConvertible
	case needsTransform(source, target):
		return TypeNeedsTransform
	default:
		return TypeIncompatible
	}
}

// needsTransform checks for shapes the engine can bridge: pointers around compatible types,
// sequences and maps of compatible elements, struct to struct, and anything to or from text.
func needsTransform(source, target reflect.Type) bool {
	if source.Kind() == reflect.String || target.Kind() == reflect.String {
		return true
	}

	if source.Kind() == reflect.Ptr && ScoreTypeCompatibility(source.Elem(), target) > TypeIncompatible {
		return true
	}

	if target.Kind() == reflect.Ptr && ScoreTypeCompatibility(source, target.Elem()) > TypeIncompatible {
		return true
	}

	sequence := func(t reflect.Type) bool { return t.Kind() == reflect.Slice || t.Kind() == reflect.Array }
	if sequence(source) && sequence(target) {
		return ScoreTypeCompatibility(source.Elem(), target.Elem()) > TypeIncompatible
	}

	if source.Kind() == reflect.Map && target.Kind() == reflect.Map {
		return ScoreTypeCompatibility(source.Key(), target.Key()) > TypeIncompatible &&
			ScoreTypeCompatibility(source.Elem(), target.Elem()) > TypeIncompatible
	}

	return source.Kind() == reflect.Struct && target.Kind() == reflect.Struct
}
