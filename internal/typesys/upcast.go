package typesys

import (
	"reflect"
	"slices"
)

// Upcast returns a view of v usable as a value of type to: v itself when assignable, the
// embedded field of type to found breadth-first, or a pointer to it when to is a pointer.
// Values that are not addressable are copied when a pointer is needed.
func Upcast(v reflect.Value, to reflect.Type) (reflect.Value, bool) {
	if !v.IsValid() {
		return reflect.Value{}, false
	}

	if v.Type().AssignableTo(to) {
		return v, true
	}

	if v.Kind() == reflect.Interface && !v.IsNil() {
		return Upcast(v.Elem(), to)
	}

	switch to.Kind() {
	case reflect.Interface:
		if v.Kind() != reflect.Ptr && reflect.PointerTo(v.Type()).Implements(to) {
			return addr(v), true
		}

		return reflect.Value{}, false
	case reflect.Ptr:
		inner, ok := embedded(v, to.Elem())
		if !ok {
			return reflect.Value{}, false
		}

		return addr(inner), true
	default:
		return embedded(v, to)
	}
}

// CanUpcast reports whether Upcast can succeed for values of type from.
func CanUpcast(from, to reflect.Type) bool {
	switch {
	case from == nil || to == nil:
		return false
	case from.AssignableTo(to):
		return true
	case to.Kind() == reflect.Interface:
		return Implements(from, to)
	case to.Kind() == reflect.Ptr:
		return slices.Contains(Ancestry(Indirect(from), nil), to.Elem())
	default:
		return slices.Contains(Ancestry(Indirect(from), nil), to)
	}
}

func addr(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v.Addr()
	}

	ptr := reflect.New(v.Type())
	ptr.Elem().Set(v)

	return ptr
}

func embedded(v reflect.Value, to reflect.Type) (reflect.Value, bool) {
	for queue := []reflect.Value{v}; len(queue) > 0; queue = queue[1:] {
		cur := deref(queue[0])
		if !cur.IsValid() {
			continue
		}

		if cur.Type() == to {
			return cur, true
		}

		if cur.Kind() != reflect.Struct {
			continue
		}

		for i := range cur.NumField() {
			if cur.Type().Field(i).Anonymous {
				queue = append(queue, cur.Field(i))
			}
		}
	}

	return reflect.Value{}, false
}
