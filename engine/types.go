package engine

import (
	"reflect"

	"caster-engine/internal/typesys"
)

// TypePair is an ordered source and destination type.
type TypePair struct {
	Source      reflect.Type
	Destination reflect.Type
}

// PairOf returns the pair S -> D.
func PairOf[S, D any]() TypePair {
	return TypePair{Source: typeOf[S](), Destination: typeOf[D]()}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// IsValid reports whether both sides are set.
func (p TypePair) IsValid() bool {
	return p.Source != nil && p.Destination != nil
}

// ContainsGenericParameters reports placeholder types on either side.
func (p TypePair) ContainsGenericParameters() bool {
	return typesys.ContainsPlaceholders(p.Source) || typesys.ContainsPlaceholders(p.Destination)
}

// Reverse swaps source and destination.
func (p TypePair) Reverse() TypePair {
	return TypePair{Source: p.Destination, Destination: p.Source}
}

func (p TypePair) String() string {
	return typeName(p.Source) + "->" + typeName(p.Destination)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}

// MapRequest identifies one execution plan: the pair the caller asked for, the pair of the
// values actually passed, and the member that triggered a nested mapping.
type MapRequest struct {
	Requested TypePair
	Runtime   TypePair
	Member    *MemberMap
}

// NewMapRequest builds a top level request whose runtime pair equals the requested one.
func NewMapRequest(pair TypePair) MapRequest {
	return MapRequest{Requested: pair, Runtime: pair}
}

func (r MapRequest) String() string {
	s := r.Requested.String()
	if r.Runtime != r.Requested {
		s += " as " + r.Runtime.String()
	}

	if r.Member != nil {
		s += " for " + r.Member.String()
	}

	return s
}
