package mapping

import (
	"reflect"
	"sort"
	"strings"

	"caster-engine/internal/common"
	"caster-engine/internal/errors"
	"caster-engine/node"
)

// basicTypes are the predeclared type names usable in transform declarations.
var basicTypes = map[string]reflect.Type{
	"bool":       reflect.TypeFor[bool](),
	"string":     reflect.TypeFor[string](),
	"int":        reflect.TypeFor[int](),
	"int8":       reflect.TypeFor[int8](),
	"int16":      reflect.TypeFor[int16](),
	"int32":      reflect.TypeFor[int32](),
	"int64":      reflect.TypeFor[int64](),
	"uint":       reflect.TypeFor[uint](),
	"uint8":      reflect.TypeFor[uint8](),
	"uint16":     reflect.TypeFor[uint16](),
	"uint32":     reflect.TypeFor[uint32](),
	"uint64":     reflect.TypeFor[uint64](),
	"float32":    reflect.TypeFor[float32](),
	"float64":    reflect.TypeFor[float64](),
	"byte":       reflect.TypeFor[byte](),
	"rune":       reflect.TypeFor[rune](),
	"any":        reflect.TypeFor[any](),
	"error":      reflect.TypeFor[error](),
	"complex64":  reflect.TypeFor[complex64](),
	"complex128": reflect.TypeFor[complex128](),
}

// Registry resolves the type and function names used in mapping files.
type Registry struct {
	types map[string]reflect.Type // full id -> type
	funcs map[string]any
}

func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]reflect.Type),
		funcs: make(map[string]any),
	}
}

// Register adds named types, identified as "import/path.Name".
func (r *Registry) Register(types ...reflect.Type) *Registry {
	for _, t := range types {
		r.types[TypeID(t)] = t
	}

	return r
}

// RegisterType adds T to r.
func RegisterType[T any](r *Registry) *Registry {
	return r.Register(reflect.TypeFor[T]())
}

// Func adds a function of one argument under name.
func (r *Registry) Func(name string, fn any) *Registry {
	r.funcs[name] = fn
	return r
}

// TypeID returns "import/path.Name" for named types and the type string otherwise.
func TypeID(t reflect.Type) string {
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}

	return t.PkgPath() + "." + t.Name()
}

// Lookup resolves a type identifier like:
//   - "caster-engine/store.Order" (full)
//   - "store.Order" (short)
//   - "Order" (name only, must be unambiguous)
//   - "int" (predeclared)
//
// A leading "*" or "[]" builds pointer and slice types.
func (r *Registry) Lookup(id string) (reflect.Type, bool) {
	switch {
	case strings.HasPrefix(id, "*"):
		t, ok := r.Lookup(id[1:])
		if !ok {
			return nil, false
		}

		return reflect.PointerTo(t), true
	case strings.HasPrefix(id, "[]"):
		t, ok := r.Lookup(id[2:])
		if !ok {
			return nil, false
		}

		return reflect.SliceOf(t), true
	}

	if t, ok := basicTypes[id]; ok {
		return t, true
	}

	if t, ok := r.types[id]; ok {
		return t, true
	}

	var found []reflect.Type

	for full, t := range r.types {
		if !strings.Contains(id, ".") {
			if t.Name() == id {
				found = append(found, t)
			}

			continue
		}

		if strings.HasSuffix(full, "/"+id) {
			found = append(found, t)
		}
	}

	if len(found) != 1 {
		return nil, false
	}

	return found[0], true
}

// Similar lists registered types whose name matches the last part of id, ignoring case,
// as "alias.Name".
func (r *Registry) Similar(id string) []string {
	name := strings.TrimLeft(id, "*[]")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}

	var out []string

	for _, full := range r.Types() {
		if t := r.types[full]; strings.EqualFold(t.Name(), name) {
			out = append(out, common.QualifiedName(t))
		}
	}

	return out
}

// Caster returns the function registered under name.
func (r *Registry) Caster(name string) (node.Caster, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return node.Caster{}, errors.Newf("function %q is not registered", name)
	}

	c, err := node.ParseCaster(fn)
	if err != nil {
		return node.Caster{}, errors.Wrapf(err, "function %q", name)
	}

	return c, nil
}

// Raw returns the function registered under name as given.
func (r *Registry) Raw(name string) (any, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Types lists the registered type ids, sorted.
func (r *Registry) Types() []string {
	ids := make([]string, 0, len(r.types))
	for id := range r.types {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// FuncNames lists the registered function names, sorted.
func (r *Registry) FuncNames() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
