package engine

import (
	"reflect"

	"caster-engine/internal/errors"
)

// Mapper is the calling surface of the engine.
type Mapper interface {
	// Map maps src to a new value of type dst.
	Map(src any, dst reflect.Type) (any, error)
	// MapInto maps src onto the value dst points to and returns dst.
	MapInto(src, dst any) (any, error)
	// MapTypes maps src declared as srcType to a new value of type dstType.
	MapTypes(src any, srcType, dstType reflect.Type) (any, error)
}

// DefaultMapper runs every call in a fresh Context.
type DefaultMapper struct {
	engine *Engine
}

var _ Mapper = (*DefaultMapper)(nil)

func NewMapper(e *Engine) *DefaultMapper {
	return &DefaultMapper{engine: e}
}

func (m *DefaultMapper) Engine() *Engine { return m.engine }

func (m *DefaultMapper) Map(src any, dst reflect.Type) (any, error) {
	return m.MapTypes(src, reflect.TypeOf(src), dst)
}

func (m *DefaultMapper) MapTypes(src any, srcType, dstType reflect.Type) (any, error) {
	if dstType == nil {
		return nil, errors.New("destination type is nil")
	}

	ctx := m.engine.NewContext()

	out, err := ctx.mapValue(reflect.ValueOf(src), reflect.Value{}, TypePair{Source: srcType, Destination: dstType}, nil)
	if err != nil {
		return nil, err
	}

	return out.Interface(), nil
}

func (m *DefaultMapper) MapInto(src, dst any) (any, error) {
	ptr := reflect.ValueOf(dst)
	if !ptr.IsValid() || ptr.Kind() != reflect.Ptr || ptr.IsNil() {
		return nil, errors.Newf("destination must be a non-nil pointer, got %T", dst)
	}

	target := ptr.Elem()
	ctx := m.engine.NewContext()

	out, err := ctx.mapValue(reflect.ValueOf(src), target, TypePair{Source: reflect.TypeOf(src), Destination: target.Type()}, nil)
	if err != nil {
		return nil, err
	}

	target.Set(out)

	return dst, nil
}

// Map maps src to D through m.
func Map[S, D any](m Mapper, src S) (D, error) {
	var zero D

	out, err := m.MapTypes(src, typeOf[S](), typeOf[D]())
	if err != nil || out == nil {
		return zero, err
	}

	return out.(D), nil
}

// MapTo maps src, typed by its dynamic type, to D.
func MapTo[D any](m Mapper, src any) (D, error) {
	var zero D

	out, err := m.Map(src, typeOf[D]())
	if err != nil || out == nil {
		return zero, err
	}

	return out.(D), nil
}
