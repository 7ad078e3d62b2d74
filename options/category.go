// Package options holds the switches that enable the built-in fallback conversions.
package options

import (
	"strings"

	"caster-engine/internal/errors"
)

// CategoryEnum is a bitmask of fallback conversions the engine may use when a pair has no mapping rule.
// Disabling a category never reorders the others.
type CategoryEnum int

const (
	CategoryIdentity      CategoryEnum = 1 << iota // destination assignable from source
	CategoryToText                                 // any -> string: canonical textual representation
	CategoryTextConverter                          // string -> value type: registered or built-in text parser
	CategoryOptionalWrap                           // T -> *T
	CategoryMaterialize                            // []T, [N]T -> []T, [M]T: copy elements into a new sequence
	CategoryParse                                  // string -> int, uint, float, bool
	CategoryValueConvert                           // value type -> value type: Go conversion, may lose precision

	CategoryAll  CategoryEnum = (1 << iota) - 1 // all categories combined
	CategoryNone CategoryEnum = 0               // no categories selected
)

var categoryNames = []struct {
	name string
	cat  CategoryEnum
}{
	{"identity", CategoryIdentity},
	{"to_text", CategoryToText},
	{"text_converter", CategoryTextConverter},
	{"optional_wrap", CategoryOptionalWrap},
	{"materialize", CategoryMaterialize},
	{"parse", CategoryParse},
	{"value_convert", CategoryValueConvert},
}

// Has reports whether every bit of other is enabled.
func (c CategoryEnum) Has(other CategoryEnum) bool {
	return c&other == other
}

func (c CategoryEnum) String() string {
	if c == CategoryNone {
		return "none"
	}

	if c == CategoryAll {
		return "all"
	}

	var names []string

	for _, n := range categoryNames {
		if c.Has(n.cat) {
			names = append(names, n.name)
		}
	}

	return strings.Join(names, "|")
}

// ParseCategories combines named categories. "all" and "none" are accepted as well.
func ParseCategories(names []string) (CategoryEnum, error) {
	var out CategoryEnum

	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))

		switch name {
		case "all":
			out |= CategoryAll
			continue
		case "none", "":
			continue
		}

		found := false

		for _, n := range categoryNames {
			if n.name == name {
				out |= n.cat
				found = true

				break
			}
		}

		if !found {
			return CategoryNone, errors.Newf("unknown fallback category %q", raw)
		}
	}

	return out, nil
}
