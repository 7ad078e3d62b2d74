package synth

import (
	"reflect"
	"strings"

	"caster-engine/internal/errors"
)

// ErrReadOnly is returned by Set for properties declared without a setter.
var ErrReadOnly = errors.New("property is read-only")

// Property describes one synthesized property.
type Property struct {
	Name     string
	Type     reflect.Type
	Writable bool
}

// Type is a synthesized struct type.
type Type struct {
	name       string
	typ        reflect.Type
	base       reflect.Type
	interfaces []reflect.Type
	props      []Property
	index      map[string][]int
}

func (t *Type) Name() string { return t.name }

// Reflect returns the struct type. Its fields are the base (if any) followed by the properties.
func (t *Type) Reflect() reflect.Type { return t.typ }

func (t *Type) Base() reflect.Type { return t.base }

func (t *Type) Properties() []Property { return append([]Property(nil), t.props...) }

// Property returns the descriptor of the named property.
func (t *Type) Property(name string) (Property, bool) {
	for _, p := range t.props {
		if p.Name == name {
			return p, true
		}
	}

	return Property{}, false
}

// New returns a pointer to a new zero instance.
func (t *Type) New() reflect.Value {
	return reflect.New(t.typ)
}

// Get reads a property of v, which is an instance or a pointer to one.
func (t *Type) Get(v reflect.Value, name string) (reflect.Value, error) {
	inst, err := t.instance(v)
	if err != nil {
		return reflect.Value{}, err
	}

	idx, ok := t.index[name]
	if !ok {
		return reflect.Value{}, errors.Newf("%s has no property %q", t.name, name)
	}

	return inst.FieldByIndex(idx), nil
}

// Set assigns value to a writable property of the instance ptr points to.
func (t *Type) Set(ptr reflect.Value, name string, value any) error {
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
		return errors.Newf("set %s.%s: need a non-nil pointer", t.name, name)
	}

	inst, err := t.instance(ptr)
	if err != nil {
		return err
	}

	prop, ok := t.Property(name)
	if !ok {
		return errors.Newf("%s has no property %q", t.name, name)
	}

	if !prop.Writable {
		return errors.Wrapf(ErrReadOnly, "set %s.%s", t.name, name)
	}

	v := reflect.ValueOf(value)

	switch {
	case !v.IsValid():
		v = reflect.Zero(prop.Type)
	case v.Type().AssignableTo(prop.Type):
	case v.Type().ConvertibleTo(prop.Type):
		v = v.Convert(prop.Type)
	default:
		return errors.Newf("set %s.%s: cannot use %s as %s", t.name, name, v.Type(), prop.Type)
	}

	inst.FieldByIndex(t.index[name]).Set(v)

	return nil
}

// Implements reports whether iface was requested for t and t or a pointer to t satisfies it.
func (t *Type) Implements(iface reflect.Type) bool {
	for _, i := range t.interfaces {
		if i == iface {
			return t.typ.Implements(iface) || reflect.PointerTo(t.typ).Implements(iface)
		}
	}

	return false
}

func (t *Type) Interfaces() []reflect.Type { return append([]reflect.Type(nil), t.interfaces...) }

func (t *Type) String() string {
	names := make([]string, len(t.props))
	for i, p := range t.props {
		names[i] = p.Name
	}

	return t.name + "{" + strings.Join(names, ", ") + "}"
}

func (t *Type) instance(v reflect.Value) (reflect.Value, error) {
	if v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}

	if !v.IsValid() || v.Type() != t.typ {
		return reflect.Value{}, errors.Newf("value is not an instance of %s", t.name)
	}

	return v, nil
}
