package decorate

import (
	"reflect"

	"caster-engine/engine"
	"caster-engine/internal/errors"
	"caster-engine/internal/typesys"
)

// ErrNilMember is returned by Validating when a source member copied by name is nil.
var ErrNilMember = errors.New("source member is nil")

type validating struct {
	next engine.Mapper
}

// Validating rejects sources where a member sharing name and type with a destination member
// is nil. Nil sources are passed through.
func Validating(next engine.Mapper) engine.Mapper {
	return &validating{next: next}
}

func (v *validating) Map(src any, dst reflect.Type) (any, error) {
	if err := checkSource(src, reflect.TypeOf(src), dst); err != nil {
		return nil, err
	}

	return v.next.Map(src, dst)
}

func (v *validating) MapInto(src, dst any) (any, error) {
	if err := checkSource(src, reflect.TypeOf(src), reflect.TypeOf(dst)); err != nil {
		return nil, err
	}

	return v.next.MapInto(src, dst)
}

func (v *validating) MapTypes(src any, srcType, dstType reflect.Type) (any, error) {
	if err := checkSource(src, srcType, dstType); err != nil {
		return nil, err
	}

	return v.next.MapTypes(src, srcType, dstType)
}

func checkSource(src any, srcType, dstType reflect.Type) error {
	value := reflect.ValueOf(src)
	if typesys.IsNil(value) || dstType == nil {
		return nil
	}

	for value.Kind() == reflect.Ptr || value.Kind() == reflect.Interface {
		value = value.Elem()
	}

	dst := typesys.Indirect(dstType)
	if value.Kind() != reflect.Struct || dst.Kind() != reflect.Struct {
		return nil
	}

	for _, f := range reflect.VisibleFields(dst) {
		if f.Anonymous || !f.IsExported() {
			continue
		}

		sf, ok := value.Type().FieldByName(f.Name)
		if !ok || !sf.IsExported() || sf.Type != f.Type || !typesys.IsNilable(sf.Type) {
			continue
		}

		member, err := value.FieldByIndexErr(sf.Index)
		if err != nil || member.IsNil() {
			return errors.WithHintf(
				errors.Wrapf(ErrNilMember, "validate %s: member %q", typeName(srcType), f.Name),
				"set %s before mapping or map with a rule that ignores it", f.Name)
		}
	}

	return nil
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
