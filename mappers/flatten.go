package mappers

import (
	"encoding"
	"reflect"
	"strconv"
	"strings"

	"caster-engine/engine"
	"caster-engine/internal/errors"
	"caster-engine/internal/typesys"
)

var textMarshaler = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

// Flatten maps a struct to a map[string]any keyed by member path ("Customer.Name",
// "Lines[0].SKU") and a map of that shape back to a struct. Nil pointers along the way produce
// no keys. When reading a map, values are converted through the engine to the field types.
type Flatten struct{}

var _ engine.ObjectMapper = Flatten{}

func (Flatten) Name() string { return "flatten" }

func (Flatten) IsMatch(_ *engine.Engine, pair engine.TypePair) bool {
	return (isComplex(pair.Source) && isFlatMap(pair.Destination)) ||
		(isFlatMap(pair.Source) && isComplex(pair.Destination))
}

func (Flatten) Build(_ *engine.Engine, req engine.MapRequest) (engine.PlanFunc, error) {
	src, dst := req.Runtime.Source, req.Runtime.Destination

	if isFlatMap(dst) {
		return func(_ *engine.Context, s, _ reflect.Value) (reflect.Value, error) {
			out := reflect.MakeMap(dst)
			flatten(s, "", make(map[visit]struct{}), func(key string, v reflect.Value) {
				out.SetMapIndex(reflect.ValueOf(key), v)
			})

			return out, nil
		}, nil
	}

	fields := settableFields(dst)
	if len(fields) == 0 {
		return nil, errors.Newf("%s has no settable fields", dst)
	}

	return func(ctx *engine.Context, s, existing reflect.Value) (reflect.Value, error) {
		out := existing
		if !out.IsValid() || !out.CanSet() {
			out = reflect.New(dst).Elem()
		}

		entries := make(map[string]any, s.Len())
		for it := s.MapRange(); it.Next(); {
			entries[it.Key().String()] = it.Value().Interface()
		}

		for _, f := range fields {
			value, ok := collect(entries, f.Name, f.Type)
			if !ok {
				continue
			}

			v, err := ctx.Map(reflect.ValueOf(value), f.Type)
			if err != nil {
				return reflect.Value{}, errors.Wrapf(err, "%s.%s from %s", dst, f.Name, src)
			}

			typesys.Settable(out, f.Index).Set(v)
		}

		return out, nil
	}, nil
}

// visit identifies a pointer being flattened.
type visit struct {
	ptr uintptr
	typ reflect.Type
}

// flatten emits every leaf under v, prefixing keys with prefix. Pointers already on the path
// from the root are skipped, so self-referencing values end.
func flatten(v reflect.Value, prefix string, active map[visit]struct{}, emit func(string, reflect.Value)) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}

		if v.Kind() == reflect.Ptr {
			key := visit{ptr: v.Pointer(), typ: v.Type()}
			if _, ok := active[key]; ok {
				return
			}

			active[key] = struct{}{}
			defer delete(active, key)
		}

		v = v.Elem()
	}

	switch {
	case isLeaf(v.Type()):
		if prefix != "" {
			emit(prefix, v)
		}
	case v.Kind() == reflect.Struct:
		for _, f := range reflect.VisibleFields(v.Type()) {
			if f.Anonymous || !f.IsExported() {
				continue
			}

			fv, err := v.FieldByIndexErr(f.Index)
			if err != nil {
				continue
			}

			flatten(fv, join(prefix, f.Name), active, emit)
		}
	default:
		for i := range v.Len() {
			flatten(v.Index(i), prefix+"["+strconv.Itoa(i)+"]", active, emit)
		}
	}
}

// collect gathers the value for a destination member: the entry stored under name itself, or
// a nested map or list rebuilt from entries under name.
func collect(entries map[string]any, name string, t reflect.Type) (any, bool) {
	if v, ok := entries[name]; ok {
		return v, true
	}

	base := typesys.Indirect(t)

	switch {
	case isLeaf(base):
		return nil, false
	case base.Kind() == reflect.Struct:
		sub := make(map[string]any)

		for k, v := range entries {
			if rest, ok := strings.CutPrefix(k, name+"."); ok {
				sub[rest] = v
			}
		}

		return sub, len(sub) > 0
	default:
		return collectList(entries, name)
	}
}

func collectList(entries map[string]any, name string) (any, bool) {
	items := make(map[int]any)
	nested := make(map[int]map[string]any)
	size := 0

	for k, v := range entries {
		rest, ok := strings.CutPrefix(k, name+"[")
		if !ok {
			continue
		}

		end := strings.IndexByte(rest, ']')
		if end < 0 {
			continue
		}

		i, err := strconv.Atoi(rest[:end])
		if err != nil || i < 0 {
			continue
		}

		size = max(size, i+1)

		switch tail := rest[end+1:]; {
		case tail == "":
			items[i] = v
		case strings.HasPrefix(tail, "."):
			if nested[i] == nil {
				nested[i] = make(map[string]any)
			}

			nested[i][tail[1:]] = v
		}
	}

	if size == 0 {
		return nil, false
	}

	list := make([]any, size)
	for i, v := range items {
		list[i] = v
	}

	for i, m := range nested {
		list[i] = m
	}

	return list, true
}

func settableFields(t reflect.Type) []reflect.StructField {
	var fields []reflect.StructField

	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || !f.IsExported() {
			continue
		}

		fields = append(fields, f)
	}

	return fields
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}

	return prefix + "." + name
}

// isLeaf reports types stored as a single entry.
func isLeaf(t reflect.Type) bool {
	t = typesys.Indirect(t)

	if t.Implements(textMarshaler) || reflect.PointerTo(t).Implements(textMarshaler) {
		return true
	}

	switch t.Kind() {
	case reflect.Struct:
		for _, f := range reflect.VisibleFields(t) {
			if f.IsExported() && !f.Anonymous {
				return false
			}
		}

		return true
	case reflect.Slice, reflect.Array:
		return t.Elem().Kind() == reflect.Uint8
	default:
		return true
	}
}

func isComplex(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && !isLeaf(t)
}

func isFlatMap(t reflect.Type) bool {
	return t.Kind() == reflect.Map && t.Key().Kind() == reflect.String && typesys.IsEmptyInterface(t.Elem())
}
