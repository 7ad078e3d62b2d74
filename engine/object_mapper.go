package engine

import (
	"reflect"

	"caster-engine/internal/plan"
	"caster-engine/internal/typesys"
)

// ObjectMapper builds plans for pairs that have no rule. Mappers are consulted in order
// before the fallback conversions.
type ObjectMapper interface {
	Name() string
	IsMatch(e *Engine, pair TypePair) bool
	// Build compiles the plan. It must not execute other plans; nested values are mapped at run
	// time through the Context.
	Build(e *Engine, req MapRequest) (PlanFunc, error)
}

func (e *Engine) objectMapper(pair TypePair) ObjectMapper {
	return e.matchWalk(pair).objectMapper(pair)
}

// Supports reports whether mapping pair can succeed: a rule, an object mapper or a fallback
// conversion applies.
func (e *Engine) Supports(pair TypePair) bool {
	return e.matchWalk(pair).supports(pair)
}

// matchWalk answers one match question whose answer depends on element pairs. A pair met
// again while it is still being decided counts as supported, so element types referring to
// each other terminate.
type matchWalk struct {
	e        *Engine
	visiting map[TypePair]struct{}
}

func (e *Engine) matchWalk(root TypePair) *matchWalk {
	return &matchWalk{e: e, visiting: map[TypePair]struct{}{root: {}}}
}

func (w *matchWalk) supports(pair TypePair) bool {
	return w.needsMapping(pair) || plan.Supports(pair.Source, pair.Destination, w.e.fallbacks)
}

// needsMapping reports pairs handled by a rule or an object mapper rather than a fallback.
func (w *matchWalk) needsMapping(pair TypePair) bool {
	if w.e.ResolveTypeMap(pair) != nil {
		return true
	}

	if _, ok := w.visiting[pair]; ok {
		return true
	}

	w.visiting[pair] = struct{}{}
	defer delete(w.visiting, pair)

	return w.objectMapper(pair) != nil
}

func (w *matchWalk) objectMapper(pair TypePair) ObjectMapper {
	for _, m := range w.e.opts.ObjectMappers {
		if w.isMatch(m, pair) {
			return m
		}
	}

	return nil
}

func (w *matchWalk) isMatch(m ObjectMapper, pair TypePair) bool {
	switch m.(type) {
	case CollectionMapper:
		return w.collection(pair)
	case PointerMapper:
		return w.pointer(pair)
	default:
		return m.IsMatch(w.e, pair)
	}
}

// CollectionMapper maps slices, arrays and maps element by element when the elements need
// mapping or differ in type. Identical element types without a rule are left to the fallbacks.
type CollectionMapper struct{}

func (CollectionMapper) Name() string { return "collection" }

func (CollectionMapper) IsMatch(e *Engine, pair TypePair) bool {
	return e.matchWalk(pair).collection(pair)
}

func (w *matchWalk) collection(pair TypePair) bool {
	src, dst := pair.Source, pair.Destination

	var elem TypePair

	switch {
	case typesys.IsSequence(src) && typesys.IsSequence(dst):
		elem = TypePair{Source: src.Elem(), Destination: dst.Elem()}
	case src.Kind() == reflect.Map && dst.Kind() == reflect.Map:
		if !w.supports(TypePair{Source: src.Key(), Destination: dst.Key()}) {
			return false
		}

		elem = TypePair{Source: src.Elem(), Destination: dst.Elem()}
	default:
		return false
	}

	if elem == pair {
		return false
	}

	if elem.Source.Kind() == reflect.Interface && !elem.Source.AssignableTo(elem.Destination) {
		return true
	}

	if w.needsMapping(elem) {
		return true
	}

	return elem.Source != elem.Destination && w.supports(elem)
}

func (CollectionMapper) Build(_ *Engine, req MapRequest) (PlanFunc, error) {
	src, dst := req.Runtime.Source, req.Runtime.Destination
	elem := TypePair{Source: src.Elem(), Destination: dst.Elem()}

	if src.Kind() == reflect.Map {
		key := TypePair{Source: src.Key(), Destination: dst.Key()}

		return func(ctx *Context, s, _ reflect.Value) (reflect.Value, error) {
			if s.IsNil() {
				return reflect.Zero(dst), nil
			}

			out := reflect.MakeMapWithSize(dst, s.Len())

			for it := s.MapRange(); it.Next(); {
				k, err := ctx.mapValue(it.Key(), reflect.Value{}, key, req.Member)
				if err != nil {
					return reflect.Value{}, err
				}

				v, err := ctx.mapValue(it.Value(), reflect.Value{}, elem, req.Member)
				if err != nil {
					return reflect.Value{}, err
				}

				out.SetMapIndex(k, v)
			}

			return out, nil
		}, nil
	}

	return func(ctx *Context, s, _ reflect.Value) (reflect.Value, error) {
		if s.Kind() == reflect.Slice && s.IsNil() {
			return reflect.Zero(dst), nil
		}

		n := s.Len()

		var out reflect.Value
		if dst.Kind() == reflect.Slice {
			out = reflect.MakeSlice(dst, n, n)
		} else {
			out = reflect.New(dst).Elem()
			n = min(n, dst.Len())
		}

		for i := range n {
			item := out.Index(i)

			v, err := ctx.mapValue(s.Index(i), item, elem, req.Member)
			if err != nil {
				return reflect.Value{}, err
			}

			item.Set(v)
		}

		return out, nil
	}, nil
}

// PointerMapper maps through pointers: nil sources give nil destinations, destinations are
// allocated and the pointees are mapped. Within one call a source pointer mapped to the same
// destination type yields the same destination pointer, so cyclic graphs terminate.
type PointerMapper struct{}

func (PointerMapper) Name() string { return "pointer" }

func (PointerMapper) IsMatch(e *Engine, pair TypePair) bool {
	return e.matchWalk(pair).pointer(pair)
}

func (w *matchWalk) pointer(pair TypePair) bool {
	src, dst := pair.Source, pair.Destination
	if src.Kind() != reflect.Ptr && dst.Kind() != reflect.Ptr {
		return false
	}

	inner := pointee(pair)

	switch {
	case w.e.ResolveTypeMap(inner) != nil:
		return true
	case src.AssignableTo(dst), dst == reflect.PointerTo(src):
		return false
	default:
		return w.supports(inner)
	}
}

func pointee(pair TypePair) TypePair {
	if pair.Source.Kind() == reflect.Ptr {
		pair.Source = pair.Source.Elem()
	}

	if pair.Destination.Kind() == reflect.Ptr {
		pair.Destination = pair.Destination.Elem()
	}

	return pair
}

func (PointerMapper) Build(e *Engine, req MapRequest) (PlanFunc, error) {
	src, dst := req.Runtime.Source, req.Runtime.Destination
	inner := pointee(req.Runtime)
	innerRule := e.ResolveTypeMap(inner) != nil

	return func(ctx *Context, s, existing reflect.Value) (reflect.Value, error) {
		if src.Kind() == reflect.Ptr {
			if s.IsNil() || (innerRule && ctx.atMaxDepth()) {
				return reflect.Zero(dst), nil
			}

			s = s.Elem()
		}

		if dst.Kind() != reflect.Ptr {
			return ctx.mapValue(s, existing, inner, req.Member)
		}

		ref := instanceRef{src: src, dst: dst}
		if src.Kind() == reflect.Ptr {
			ref.ptr = s.Addr().Pointer()
			if seen, ok := ctx.recall(ref); ok {
				return seen, nil
			}
		}

		target := existing
		if !target.IsValid() || target.IsNil() {
			target = reflect.New(dst.Elem())
		}

		if ref.ptr != 0 {
			ctx.remember(ref, target)
		}

		v, err := ctx.mapValue(s, target.Elem(), inner, req.Member)
		if err != nil {
			return reflect.Value{}, err
		}

		target.Elem().Set(v)

		return target, nil
	}, nil
}
