package plan

import (
	"fmt"
	"reflect"

	"caster-engine/internal/typesys"
	"caster-engine/options"
	"caster-engine/primitive"
)

// Convert turns a source value into a destination value. Callers never pass an invalid Value.
type Convert func(src reflect.Value) (reflect.Value, error)

// Fallbacks configures the cascade.
type Fallbacks struct {
	Enabled    options.CategoryEnum
	Converters *Converters
}

// DefaultFallbacks enables every rule with no registered text converters.
func DefaultFallbacks() Fallbacks {
	return Fallbacks{Enabled: options.CategoryAll, Converters: NewConverters()}
}

type rule struct {
	strategy Strategy
	category options.CategoryEnum
	// build returns nil when the rule does not apply to the pair.
	build func(src, dst reflect.Type, f Fallbacks) Convert
}

var cascade = []rule{
	{StrategyIdentity, options.CategoryIdentity, identity},
	{StrategyToText, options.CategoryToText, toText},
	{StrategyTextConverter, options.CategoryTextConverter, textConverter},
	{StrategyOptionalWrap, options.CategoryOptionalWrap, optionalWrap},
	{StrategyMaterialize, options.CategoryMaterialize, materialize},
	{StrategyParse, options.CategoryParse, parse},
	{StrategyValueConvert, options.CategoryValueConvert, valueConvert},
}

// Select returns the first enabled fallback rule applying to src -> dst.
// StrategyUnsupported comes with a nil Convert.
func Select(src, dst reflect.Type, f Fallbacks) (Strategy, Convert) {
	for _, r := range cascade {
		if !f.Enabled.Has(r.category) {
			continue
		}

		if conv := r.build(src, dst, f); conv != nil {
			return r.strategy, conv
		}
	}

	return StrategyUnsupported, nil
}

// Supports reports whether some enabled rule applies.
func Supports(src, dst reflect.Type, f Fallbacks) bool {
	s, _ := Select(src, dst, f)

	return s != StrategyUnsupported
}

func identity(src, dst reflect.Type, _ Fallbacks) Convert {
	if !src.AssignableTo(dst) {
		return nil
	}

	if src == dst {
		return func(v reflect.Value) (reflect.Value, error) { return v, nil }
	}

	return func(v reflect.Value) (reflect.Value, error) {
		out := reflect.New(dst).Elem()
		out.Set(v)

		return out, nil
	}
}

func toText(src, dst reflect.Type, _ Fallbacks) Convert {
	if !typesys.IsTextual(dst) || typesys.IsTextual(src) {
		return nil
	}

	return func(v reflect.Value) (reflect.Value, error) {
		return reflect.ValueOf(fmt.Sprint(v.Interface())).Convert(dst), nil
	}
}

func textConverter(src, dst reflect.Type, f Fallbacks) Convert {
	if !typesys.IsValueType(dst) || !typesys.IsTextual(src) {
		return nil
	}

	parse, ok := f.Converters.Lookup(dst)
	if !ok {
		return nil
	}

	return func(v reflect.Value) (reflect.Value, error) {
		out, err := parse(v.String())
		if err != nil {
			return reflect.Value{}, err
		}

		if out.Type() != dst {
			out = out.Convert(dst)
		}

		return out, nil
	}
}

func optionalWrap(src, dst reflect.Type, _ Fallbacks) Convert {
	if dst.Kind() != reflect.Ptr || dst.Elem() != src {
		return nil
	}

	return func(v reflect.Value) (reflect.Value, error) {
		ptr := reflect.New(src)
		ptr.Elem().Set(v)

		return ptr, nil
	}
}

func materialize(src, dst reflect.Type, _ Fallbacks) Convert {
	if !typesys.IsSequence(src) || !typesys.IsSequence(dst) || src.Elem() != dst.Elem() {
		return nil
	}

	return func(v reflect.Value) (reflect.Value, error) {
		if v.Kind() == reflect.Slice && v.IsNil() {
			return reflect.Zero(dst), nil
		}

		n := v.Len()

		var out reflect.Value
		if dst.Kind() == reflect.Slice {
			out = reflect.MakeSlice(dst, n, n)
		} else {
			out = reflect.New(dst).Elem()
			n = min(n, dst.Len())
		}

		for i := range n {
			out.Index(i).Set(v.Index(i))
		}

		return out, nil
	}
}

func parse(src, dst reflect.Type, _ Fallbacks) Convert {
	if !typesys.IsTextual(src) || !primitive.IsParsable(dst) {
		return nil
	}

	return func(v reflect.Value) (reflect.Value, error) {
		return primitive.Parse(dst, v.String())
	}
}

func valueConvert(src, dst reflect.Type, _ Fallbacks) Convert {
	bothValues := typesys.IsValueType(src) && typesys.IsValueType(dst)
	bothText := typesys.IsTextual(src) && typesys.IsTextual(dst)

	if (!bothValues && !bothText) || !src.ConvertibleTo(dst) {
		return nil
	}

	return func(v reflect.Value) (reflect.Value, error) {
		return v.Convert(dst), nil
	}
}
