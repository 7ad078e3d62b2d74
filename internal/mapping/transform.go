package mapping

import (
	"reflect"

	"caster-engine/internal/errors"
	"caster-engine/internal/fieldpath"
	"caster-engine/internal/typesys"
	"caster-engine/node"
)

var errorType = reflect.TypeFor[error]()

// funcName returns the registry name behind a transform reference.
func (mf *MappingFile) funcName(name string) string {
	if def, ok := mf.Transform(name); ok && def.Func != "" {
		return def.Func
	}

	return name
}

// resolveTransform returns the function behind a transform reference and checks it against
// the declared types, if any.
func resolveTransform(mf *MappingFile, reg *Registry, name string) (node.Caster, error) {
	c, err := reg.Caster(mf.funcName(name))
	if err != nil {
		return node.Caster{}, errors.Wrapf(err, "transform %q", name)
	}

	def, ok := mf.Transform(name)
	if !ok {
		return c, nil
	}

	if err := checkDeclared(reg, def.SourceType, c.Src, "source"); err != nil {
		return node.Caster{}, errors.Wrapf(err, "transform %q", name)
	}

	if err := checkDeclared(reg, def.TargetType, c.Dst, "target"); err != nil {
		return node.Caster{}, errors.Wrapf(err, "transform %q", name)
	}

	return c, nil
}

func checkDeclared(reg *Registry, declared string, actual reflect.Type, side string) error {
	if declared == "" {
		return nil
	}

	t, ok := reg.Lookup(declared)
	if !ok {
		return errors.Newf("%s type %q not found", side, declared)
	}

	if t != actual {
		return errors.Newf("%s type is %s but the function uses %s", side, t, actual)
	}

	return nil
}

// compose builds func(src) (D, error) applying c to the value at path. A nil along the path
// passes the zero value to c. A false ok result from c produces the zero D.
func compose(src reflect.Type, path fieldpath.Path, c node.Caster) (any, error) {
	acc, err := typesys.Resolve(src, path)
	if err != nil {
		return nil, err
	}

	if !c.Accepts(acc.Type()) {
		return nil, errors.Newf("%s takes %s but %s is %s", c, c.Src, path, acc.Type())
	}

	fnType := reflect.FuncOf([]reflect.Type{src}, []reflect.Type{c.Dst, errorType}, false)

	fn := reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		fail := func(err error) []reflect.Value {
			return []reflect.Value{reflect.Zero(c.Dst), reflect.ValueOf(&err).Elem()}
		}

		v, err := acc.Get(args[0])
		if err != nil {
			return fail(err)
		}

		if !v.IsValid() {
			v = reflect.Zero(acc.Type())
		}

		out, ok, err := c.Call(v)
		if err != nil {
			return fail(err)
		}

		if !ok {
			out = reflect.Zero(c.Dst)
		}

		return []reflect.Value{out, reflect.Zero(errorType)}
	})

	return fn.Interface(), nil
}
