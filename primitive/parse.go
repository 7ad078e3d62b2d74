package primitive

import (
	"reflect"
	"strconv"
	"strings"

	"caster-engine/internal/errors"
)

// IsParsable reports whether Parse accepts t: any type whose kind is numeric or bool.
func IsParsable(t reflect.Type) bool {
	k := FromKind(t.Kind())

	return k.IsNumber() || k == KindBool
}

// Parse reads text as a value of the numeric or bool type t.
// Integers accept base prefixes (0x, 0o, 0b) and surrounding spaces are ignored.
func Parse(t reflect.Type, text string) (reflect.Value, error) {
	text = strings.TrimSpace(text)
	kind := FromKind(t.Kind())

	var (
		v   any
		err error
	)

	switch {
	case kind == KindBool:
		v, err = strconv.ParseBool(text)
	case kind.IsSigned():
		v, err = strconv.ParseInt(text, 0, kind.Bits())
	case kind.IsUnsigned():
		v, err = strconv.ParseUint(text, 0, kind.Bits())
	case kind.IsFloat():
		v, err = strconv.ParseFloat(text, kind.Bits())
	default:
		return reflect.Value{}, errors.Newf("%s is not a parsable primitive", t)
	}

	if err != nil {
		return reflect.Value{}, errors.Wrapf(err, "parse %q as %s", text, t)
	}

	return reflect.ValueOf(v).Convert(t), nil
}
