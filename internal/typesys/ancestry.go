package typesys

import (
	"reflect"

	"caster-engine/internal/common"
)

// Ancestry returns t followed by its ancestors, most specific first:
// embedded types breadth-first (nearest embedding level first, pointer embeddings dereferenced),
// then every interface from known that t or *t implements, in the order of known.
// Interfaces without methods are never part of an ancestry and duplicates are removed.
func Ancestry(t reflect.Type, known []reflect.Type) []reflect.Type {
	seen := make(map[reflect.Type]struct{})
	out := common.AppendUnique([]reflect.Type(nil), seen, t)

	for queue := []reflect.Type{t}; len(queue) > 0; queue = queue[1:] {
		cur := queue[0]
		if cur.Kind() != reflect.Struct {
			continue
		}

		for i := range cur.NumField() {
			f := cur.Field(i)
			if !f.Anonymous {
				continue
			}

			embedded := f.Type
			if embedded.Kind() == reflect.Ptr {
				embedded = embedded.Elem()
			}

			if IsEmptyInterface(embedded) {
				continue
			}

			if _, ok := seen[embedded]; ok {
				continue
			}

			out = common.AppendUnique(out, seen, embedded)
			queue = append(queue, embedded)
		}
	}

	for _, iface := range known {
		if iface.Kind() != reflect.Interface || IsEmptyInterface(iface) {
			continue
		}

		if Implements(t, iface) {
			out = common.AppendUnique(out, seen, iface)
		}
	}

	return out
}

// Implements reports whether t or a pointer to t implements iface.
func Implements(t, iface reflect.Type) bool {
	if t.Implements(iface) {
		return true
	}

	return t.Kind() != reflect.Ptr && t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(iface)
}
