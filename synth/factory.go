package synth

import (
	"go/token"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"caster-engine/internal/errors"
	"caster-engine/internal/lazy"
	"caster-engine/node"
)

// Factory creates types from descriptions.
type Factory interface {
	CreateType(name string, base reflect.Type, interfaces []reflect.Type, props []Property) (*Type, error)
}

// StructFactory builds types with reflect.StructOf. Identical descriptions return the same
// *Type; descriptions differing only in property order are distinct. An empty name is
// replaced with a generated one. It is safe for concurrent use.
type StructFactory struct {
	stem  *node.Stem
	types lazy.Map[string, *Type]

	mu    sync.Mutex
	names map[string]string // type name -> description key
}

var _ Factory = (*StructFactory)(nil)

// NewStructFactory returns a factory naming anonymous types stem1, stem2, ...
func NewStructFactory(stem string) *StructFactory {
	if stem == "" {
		stem = "Synth"
	}

	return &StructFactory{
		stem:  node.NewStem(stem, nil),
		names: make(map[string]string),
	}
}

func (f *StructFactory) CreateType(name string, base reflect.Type, interfaces []reflect.Type, props []Property) (*Type, error) {
	if err := check(name, base, interfaces, props); err != nil {
		return nil, err
	}

	key := describe(base, interfaces, props)
	if name != "" {
		if err := f.claim(name, key); err != nil {
			return nil, err
		}

		key = name + " " + key
	}

	return f.types.GetOrCompute(key, func() (*Type, error) {
		if name == "" {
			name = f.stem.Next()
		}

		return build(name, base, interfaces, props)
	})
}

// claim binds name to one description.
func (f *StructFactory) claim(name, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if owner, ok := f.names[name]; ok {
		if owner != key {
			return errors.Newf("type name %q is already used by another description", name)
		}

		return nil
	}

	if !f.stem.Reserve(name) {
		return errors.Newf("type name %q is already taken", name)
	}

	f.names[name] = key

	return nil
}

func check(name string, base reflect.Type, interfaces []reflect.Type, props []Property) error {
	if name != "" && !token.IsIdentifier(name) {
		return errors.Newf("invalid type name %q", name)
	}

	if base != nil {
		if base.Kind() != reflect.Struct {
			return errors.Newf("base %s is not a struct", base)
		}

		if !token.IsExported(base.Name()) {
			return errors.WithHint(
				errors.Newf("base %s is not an exported named type", base),
				"embedded bases must be exported so their fields can be promoted")
		}
	}

	for _, iface := range interfaces {
		if iface == nil || iface.Kind() != reflect.Interface {
			return errors.Newf("%v is not an interface", iface)
		}

		if iface.NumMethod() > 0 && (base == nil || !reflect.PointerTo(base).Implements(iface)) {
			return errors.WithHint(
				errors.Newf("cannot implement %s", iface),
				"methods cannot be synthesized; embed a base type that implements the interface")
		}
	}

	seen := make(map[string]struct{}, len(props))
	if base != nil {
		seen[base.Name()] = struct{}{}
	}

	for _, p := range props {
		if !token.IsIdentifier(p.Name) || !token.IsExported(p.Name) {
			return errors.Newf("property name %q must be an exported identifier", p.Name)
		}

		if p.Type == nil {
			return errors.Newf("property %s has no type", p.Name)
		}

		if _, dup := seen[p.Name]; dup {
			return errors.Newf("duplicate property %s", p.Name)
		}

		seen[p.Name] = struct{}{}
	}

	return nil
}

func describe(base reflect.Type, interfaces []reflect.Type, props []Property) string {
	var b strings.Builder

	if base != nil {
		b.WriteString(base.PkgPath() + "." + base.String())
	}

	b.WriteString("|")

	for _, iface := range interfaces {
		b.WriteString(iface.PkgPath() + "." + iface.String() + ",")
	}

	b.WriteString("|")

	for _, p := range props {
		b.WriteString(p.Name + " " + p.Type.PkgPath() + "." + p.Type.String() + " " + strconv.FormatBool(p.Writable) + ";")
	}

	return b.String()
}

func build(name string, base reflect.Type, interfaces []reflect.Type, props []Property) (t *Type, err error) {
	fields := make([]reflect.StructField, 0, len(props)+1)
	index := make(map[string][]int, len(props))

	if base != nil {
		fields = append(fields, reflect.StructField{Name: base.Name(), Type: base, Anonymous: true})
	}

	for _, p := range props {
		index[p.Name] = []int{len(fields)}
		fields = append(fields, reflect.StructField{Name: p.Name, Type: p.Type})
	}

	defer func() {
		if r := recover(); r != nil {
			t, err = nil, errors.Newf("synthesize %s: %v", name, r)
		}
	}()

	typ := reflect.StructOf(fields)

	for _, iface := range interfaces {
		if !typ.Implements(iface) && !reflect.PointerTo(typ).Implements(iface) {
			return nil, errors.WithHint(
				errors.Newf("%s does not implement %s", name, iface),
				"only value-receiver methods of the base are promoted; declare the methods on the base with value receivers")
		}
	}

	return &Type{
		name:       name,
		typ:        typ,
		base:       base,
		interfaces: append([]reflect.Type(nil), interfaces...),
		props:      append([]Property(nil), props...),
		index:      index,
	}, nil
}
