package typesys

import (
	"reflect"
	"strings"
	"unicode"

	"caster-engine/internal/errors"
	"caster-engine/internal/fieldpath"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// StepKind tells how a Step reads its member.
type StepKind int

const (
	StepField StepKind = iota
	StepMethod
)

// Step reads one member of a value.
type Step struct {
	Kind StepKind
	Name string
	// Owner is the type the step was resolved on, with pointers stripped for fields.
	Owner reflect.Type
	// Index of a field within Owner.
	Index []int
	// Elem is the element index applied after reading the member, or fieldpath.NoIndex.
	Elem int
	// Type of the value produced by the step.
	Type reflect.Type
	// HasErr is set for methods returning (T, error).
	HasErr bool
}

// Accessor reads a chain of members, e.g. Customer.Name or GetTotal.
type Accessor struct {
	Steps []Step
}

// Type returns the type of the value the accessor produces.
func (a Accessor) Type() reflect.Type {
	if len(a.Steps) == 0 {
		return nil
	}

	return a.Steps[len(a.Steps)-1].Type
}

func (a Accessor) String() string {
	names := make([]string, len(a.Steps))
	for i, s := range a.Steps {
		names[i] = s.Name
	}

	return strings.Join(names, ".")
}

// Member finds a readable member of t named name: an exported field first, then a method
// called name, then a method called "Get"+name. Methods must take no arguments and return
// a value, optionally followed by an error.
func Member(t reflect.Type, name string) (Step, bool) {
	if t == nil || name == "" {
		return Step{}, false
	}

	if base := Indirect(t); base.Kind() == reflect.Struct {
		if f, ok := base.FieldByName(name); ok && f.IsExported() {
			return Step{Kind: StepField, Name: name, Owner: base, Index: f.Index, Elem: fieldpath.NoIndex, Type: f.Type}, true
		}
	}

	for _, candidate := range []string{name, "Get" + name} {
		if step, ok := method(t, candidate); ok {
			return step, true
		}
	}

	return Step{}, false
}

func method(t reflect.Type, name string) (Step, bool) {
	var (
		fn        reflect.Type
		receivers int
	)

	switch {
	case t.Kind() == reflect.Interface:
		m, ok := t.MethodByName(name)
		if !ok {
			return Step{}, false
		}

		fn = m.Type
	default:
		m, ok := t.MethodByName(name)
		if !ok && t.Kind() != reflect.Ptr {
			m, ok = reflect.PointerTo(t).MethodByName(name)
		}

		if !ok || !m.IsExported() {
			return Step{}, false
		}

		fn, receivers = m.Type, 1
	}

	if fn.NumIn() != receivers || fn.IsVariadic() {
		return Step{}, false
	}

	step := Step{Kind: StepMethod, Name: name, Owner: t, Elem: fieldpath.NoIndex}

	switch {
	case fn.NumOut() == 1:
		step.Type = fn.Out(0)
	case fn.NumOut() == 2 && fn.Out(1) == errorType:
		step.Type, step.HasErr = fn.Out(0), true
	default:
		return Step{}, false
	}

	return step, true
}

// Resolve builds an accessor for path starting at t.
func Resolve(t reflect.Type, path fieldpath.Path) (Accessor, error) {
	if path.IsEmpty() {
		return Accessor{}, errors.New("empty path")
	}

	var acc Accessor

	cur := t
	for _, seg := range path.Segments {
		step, ok := Member(cur, seg.Name)
		if !ok {
			return Accessor{}, errors.Newf("%s has no readable member %q", cur, seg.Name)
		}

		if seg.Index != fieldpath.NoIndex {
			elem := Indirect(step.Type)
			if !IsSequence(elem) {
				return Accessor{}, errors.Newf("member %q of %s is not indexable", seg.Name, cur)
			}

			step.Elem = seg.Index
			step.Type = elem.Elem()
		}

		acc.Steps = append(acc.Steps, step)
		cur = step.Type
	}

	return acc, nil
}

// Flatten finds an accessor for a destination member name on t. The name is matched against
// a member directly, or split at a capital letter into a member of t and the rest of the name
// resolved on that member, so CustomerName reads Customer.Name.
func Flatten(t reflect.Type, name string) (Accessor, bool) {
	if step, ok := Member(t, name); ok {
		return Accessor{Steps: []Step{step}}, true
	}

	runes := []rune(name)
	for i := 1; i < len(runes); i++ {
		if !unicode.IsUpper(runes[i]) {
			continue
		}

		head, ok := Member(t, string(runes[:i]))
		if !ok {
			continue
		}

		if rest, ok := Flatten(head.Type, string(runes[i:])); ok {
			return Accessor{Steps: append([]Step{head}, rest.Steps...)}, true
		}
	}

	return Accessor{}, false
}

// Get reads the accessor from v. A nil pointer, nil interface or out of range index along the
// path produces an invalid Value and no error.
func (a Accessor) Get(v reflect.Value) (reflect.Value, error) {
	for _, step := range a.Steps {
		var err error

		switch step.Kind {
		case StepField:
			v = readField(v, step)
		case StepMethod:
			v, err = callMethod(v, step)
			if err != nil {
				return reflect.Value{}, err
			}
		}

		if step.Elem != fieldpath.NoIndex {
			v = element(v, step.Elem)
		}

		if !v.IsValid() {
			return reflect.Value{}, nil
		}
	}

	return v, nil
}

func deref(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	return v
}

func readField(v reflect.Value, step Step) reflect.Value {
	v = deref(v)
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return reflect.Value{}
	}

	index := step.Index
	if v.Type() != step.Owner {
		f, ok := v.Type().FieldByName(step.Name)
		if !ok {
			return reflect.Value{}
		}

		index = f.Index
	}

	field, err := v.FieldByIndexErr(index)
	if err != nil {
		return reflect.Value{}
	}

	return field
}

func callMethod(v reflect.Value, step Step) (reflect.Value, error) {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, nil
		}

		v = v.Elem()
	}

	if !v.IsValid() || (v.Kind() == reflect.Ptr && v.IsNil()) {
		return reflect.Value{}, nil
	}

	m := v.MethodByName(step.Name)
	if !m.IsValid() && v.Kind() != reflect.Ptr {
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		m = ptr.MethodByName(step.Name)
	}

	if !m.IsValid() {
		return reflect.Value{}, nil
	}

	out := m.Call(nil)
	if step.HasErr && !out[1].IsNil() {
		return reflect.Value{}, out[1].Interface().(error)
	}

	return out[0], nil
}

func element(v reflect.Value, index int) reflect.Value {
	v = deref(v)
	if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) || index >= v.Len() {
		return reflect.Value{}
	}

	return v.Index(index)
}

// Settable returns the field of the struct behind v at index, allocating nil embedded pointers
// along the way. v must be addressable.
func Settable(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		v = v.Field(x)
	}

	return v
}

// ReadableMembers lists the exported fields of t, promoted ones included, followed by the
// methods Member would accept. Used to suggest alternatives for names that were not found.
func ReadableMembers(t reflect.Type) []Step {
	var out []Step

	if base := Indirect(t); base.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(base) {
			if f.Anonymous || !f.IsExported() {
				continue
			}

			out = append(out, Step{Kind: StepField, Name: f.Name, Owner: base, Index: f.Index, Elem: fieldpath.NoIndex, Type: f.Type})
		}
	}

	methods := t
	if methods.Kind() != reflect.Ptr && methods.Kind() != reflect.Interface {
		methods = reflect.PointerTo(t)
	}

	for i := range methods.NumMethod() {
		if step, ok := method(t, methods.Method(i).Name); ok {
			out = append(out, step)
		}
	}

	return out
}
