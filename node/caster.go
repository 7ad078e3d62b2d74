// Package node inspects user supplied conversion functions and tracks the type pairs
// a validation walk still has to visit.
package node

import (
	"errors"
	"path"
	"reflect"
	"runtime"
	"strings"

	"caster-engine/utils"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
	ErrDoublePointer        = errors.New("caster function does not support double pointers")
)

// Caster describes a single argument conversion function.
type Caster struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool

	fn reflect.Value
}

// ParseCaster inspects the provided function and returns a Caster struct if it is a valid caster function.
//
// Supports interfaces:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
func ParseCaster(fn any) (Caster, error) {
	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func || fnVal.IsNil() {
		return Caster{}, ErrCasterIsNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return Caster{}, ErrIsNotACaster
	}

	src := fnType.In(0)
	if src.Kind() == reflect.Ptr && src.Elem().Kind() == reflect.Ptr {
		return Caster{}, ErrDoublePointer
	}

	dst := fnType.Out(0)
	if dst.Kind() == reflect.Ptr && dst.Elem().Kind() == reflect.Ptr {
		return Caster{}, ErrDoublePointer
	}

	caster := Caster{
		Src: src,
		Dst: dst,
		fn:  fnVal,
	}

	if fnPC := runtime.FuncForPC(fnVal.Pointer()); fnPC != nil {
		alias, name := utils.Unpack2(strings.SplitN(fnPC.Name(), ".", 2))
		caster.Name = name
		caster.PackageAlias = utils.Second(path.Split(alias))
	}

	switch fnType.NumOut() {
	default:
		return Caster{}, ErrIsNotACaster

	case 1:
		return caster, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Caster{}, ErrIsNotACaster
		case last.Kind() == reflect.Bool:
			caster.HasBool = true
		case isError(last):
			caster.HasErr = true
		}

		return caster, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !isError(terr) {
			return Caster{}, ErrIsNotACaster
		}

		caster.HasBool = true
		caster.HasErr = true

		return caster, nil
	}
}

// Accepts reports whether a value of type t can be passed to the caster.
func (c Caster) Accepts(t reflect.Type) bool {
	return t.AssignableTo(c.Src) || (c.Src.Kind() == reflect.Interface && t.Implements(c.Src))
}

// Call invokes the caster. ok is false when the function reported a missing value through its bool result.
func (c Caster) Call(arg reflect.Value) (out reflect.Value, ok bool, err error) {
	if !arg.IsValid() {
		arg = reflect.Zero(c.Src)
	} else if arg.Type() != c.Src {
		converted := reflect.New(c.Src).Elem()
		converted.Set(arg)
		arg = converted
	}

	results := c.fn.Call([]reflect.Value{arg})

	ok = true
	if c.HasBool {
		ok = results[1].Bool()
	}

	if c.HasErr {
		if e := results[len(results)-1]; !e.IsNil() {
			return reflect.Value{}, false, e.Interface().(error)
		}
	}

	return results[0], ok, nil
}

// String names the function as alias.Name.
func (c Caster) String() string {
	if c.PackageAlias == "" {
		return c.Name
	}

	return c.PackageAlias + "." + c.Name
}
