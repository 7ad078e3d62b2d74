package typesys

import (
	"maps"
	"reflect"
	"strings"

	"caster-engine/generic"
)

// Generic describes an instantiation of a generic named type.
type Generic struct {
	PkgPath    string
	Definition string
	Args       string
}

// ParseGeneric splits the name of an instantiated generic type into its definition and arguments.
func ParseGeneric(t reflect.Type) (Generic, bool) {
	if t == nil {
		return Generic{}, false
	}

	name := t.Name()

	open := strings.IndexByte(name, '[')
	if open <= 0 || !strings.HasSuffix(name, "]") {
		return Generic{}, false
	}

	return Generic{
		PkgPath:    t.PkgPath(),
		Definition: name[:open],
		Args:       name[open+1 : len(name)-1],
	}, true
}

// SameDefinition reports whether both generics instantiate the same generic type.
func (g Generic) SameDefinition(other Generic) bool {
	return g.PkgPath == other.PkgPath && g.Definition == other.Definition
}

// ContainsPlaceholders reports whether a placeholder type appears anywhere in t.
func ContainsPlaceholders(t reflect.Type) bool {
	return containsPlaceholders(t, make(map[reflect.Type]struct{}))
}

func containsPlaceholders(t reflect.Type, visiting map[reflect.Type]struct{}) bool {
	if t == nil {
		return false
	}

	if generic.IsPlaceholder(t) {
		return true
	}

	if _, ok := visiting[t]; ok {
		return false
	}

	visiting[t] = struct{}{}

	if g, ok := ParseGeneric(t); ok {
		for _, token := range generic.Tokens() {
			if strings.Contains(g.Args, token) {
				return true
			}
		}

		return false
	}

	switch t.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Chan:
		return containsPlaceholders(t.Elem(), visiting)
	case reflect.Map:
		return containsPlaceholders(t.Key(), visiting) || containsPlaceholders(t.Elem(), visiting)
	case reflect.Func:
		for i := range t.NumIn() {
			if containsPlaceholders(t.In(i), visiting) {
				return true
			}
		}

		for i := range t.NumOut() {
			if containsPlaceholders(t.Out(i), visiting) {
				return true
			}
		}
	case reflect.Struct:
		if t.Name() != "" {
			return false
		}

		for i := range t.NumField() {
			if containsPlaceholders(t.Field(i).Type, visiting) {
				return true
			}
		}
	}

	return false
}

// IsClosedGeneric reports whether t instantiates a generic type without placeholders.
func IsClosedGeneric(t reflect.Type) bool {
	_, ok := ParseGeneric(t)

	return ok && !ContainsPlaceholders(t)
}

// Binding maps placeholder tokens to the argument text they stand for.
type Binding map[string]string

// Bind matches the open generic type pattern against a closed instantiation of the same
// generic type, binding each placeholder to the text of the concrete argument.
func Bind(pattern, concrete reflect.Type) (Binding, bool) {
	pg, ok := ParseGeneric(pattern)
	if !ok {
		return nil, false
	}

	cg, ok := ParseGeneric(concrete)
	if !ok || !pg.SameDefinition(cg) {
		return nil, false
	}

	b := Binding{}
	if !b.match(pg.Args, cg.Args) {
		return nil, false
	}

	return b, true
}

// Substitute replaces every bound placeholder token in text.
func (b Binding) Substitute(text string) string {
	for token, value := range b {
		text = strings.ReplaceAll(text, token, value)
	}

	return text
}

// Instantiates reports whether template with b substituted names exactly concrete.
// Templates without placeholders must equal concrete.
func (b Binding) Instantiates(template, concrete reflect.Type) bool {
	if !ContainsPlaceholders(template) {
		return template == concrete
	}

	tg, ok := ParseGeneric(template)
	if !ok {
		return false
	}

	cg, ok := ParseGeneric(concrete)
	if !ok || !tg.SameDefinition(cg) {
		return false
	}

	return b.Substitute(tg.Args) == cg.Args
}

// Unbound returns placeholder tokens used by t that b does not bind.
func (b Binding) Unbound(t reflect.Type) []string {
	g, ok := ParseGeneric(t)
	if !ok {
		return nil
	}

	var out []string

	for _, token := range generic.Tokens() {
		if _, bound := b[token]; !bound && strings.Contains(g.Args, token) {
			out = append(out, token)
		}
	}

	return out
}

// PatternTokens binds every placeholder of pattern to itself. Used to check that a template
// destination only refers to placeholders its source declares.
func PatternTokens(pattern reflect.Type) Binding {
	b := Binding{}

	g, ok := ParseGeneric(pattern)
	if !ok {
		return b
	}

	for _, token := range generic.Tokens() {
		if strings.Contains(g.Args, token) {
			b[token] = token
		}
	}

	return b
}

func (b Binding) match(pattern, text string) bool {
	idx, token := nextToken(pattern)
	if idx < 0 {
		return pattern == text
	}

	if !strings.HasPrefix(text, pattern[:idx]) {
		return false
	}

	rest, text := pattern[idx+len(token):], text[idx:]

	if bound, ok := b[token]; ok {
		return strings.HasPrefix(text, bound) && b.match(rest, text[len(bound):])
	}

	for end := 1; end <= len(text); end++ {
		candidate := text[:end]
		if !balanced(candidate) {
			continue
		}

		trial := maps.Clone(b)
		trial[token] = candidate

		if trial.match(rest, text[end:]) {
			maps.Copy(b, trial)
			return true
		}
	}

	return false
}

func nextToken(s string) (int, string) {
	best, bestToken := -1, ""

	for _, token := range generic.Tokens() {
		if i := strings.Index(s, token); i >= 0 && (best < 0 || i < best) {
			best, bestToken = i, token
		}
	}

	return best, bestToken
}

// balanced reports whether brackets in s are balanced and s is not split at a top-level comma.
func balanced(s string) bool {
	depth := 0

	for _, r := range s {
		switch r {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
			if depth < 0 {
				return false
			}
		case ',':
			if depth == 0 {
				return false
			}
		}
	}

	return depth == 0
}
