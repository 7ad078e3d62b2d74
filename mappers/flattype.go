package mappers

import (
	"reflect"

	"caster-engine/internal/errors"
	"caster-engine/internal/typesys"
	"caster-engine/synth"
)

// FlatType synthesizes a struct holding every leaf of t as one writable field. Nested struct
// members are inlined with their names concatenated, so Customer.Name becomes CustomerName
// and the engine's member flattening maps t onto the new type without configuration.
// Sequences and maps stay single fields.
func FlatType(f synth.Factory, t reflect.Type) (*synth.Type, error) {
	base := typesys.Indirect(t)
	if !isComplex(base) {
		return nil, errors.Newf("%s has no members to flatten", t)
	}

	var props []synth.Property

	seen := make(map[string]struct{})

	var walk func(reflect.Type, string, map[reflect.Type]bool) error
	walk = func(cur reflect.Type, prefix string, path map[reflect.Type]bool) error {
		if path[cur] {
			return errors.Newf("cannot flatten recursive type %s", cur)
		}

		path[cur] = true
		defer delete(path, cur)

		for _, field := range reflect.VisibleFields(cur) {
			if field.Anonymous || !field.IsExported() {
				continue
			}

			name := prefix + field.Name
			inner := typesys.Indirect(field.Type)

			if isComplex(inner) {
				if err := walk(inner, name, path); err != nil {
					return err
				}

				continue
			}

			if _, dup := seen[name]; dup {
				return errors.Newf("flattened member %s of %s is ambiguous", name, t)
			}

			seen[name] = struct{}{}
			props = append(props, synth.Property{Name: name, Type: field.Type, Writable: true})
		}

		return nil
	}

	if err := walk(base, "", make(map[reflect.Type]bool)); err != nil {
		return nil, err
	}

	return f.CreateType(base.Name()+"Flat", nil, nil, props)
}
