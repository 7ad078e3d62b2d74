package engine

import (
	"reflect"

	"caster-engine/internal/fieldpath"
)

// Profile is a named group of rules. Profiles are merged by New in the order given.
type Profile struct {
	Name string
	maps []*TypeMap
}

func NewProfile(name string) *Profile {
	return &Profile{Name: name}
}

// Maps returns the rules declared on p in declaration order.
func (p *Profile) Maps() []*TypeMap {
	return p.maps
}

// CreateMap declares a rule for src -> dst. Generic types instantiated with the placeholders of
// package generic declare an open rule.
func (p *Profile) CreateMap(src, dst reflect.Type) *TypeMap {
	tm := &TypeMap{Types: TypePair{Source: src, Destination: dst}, profile: p}
	p.maps = append(p.maps, tm)

	return tm
}

// CreateMap declares a rule for S -> D on p.
func CreateMap[S, D any](p *Profile) *TypeMap {
	return p.CreateMap(typeOf[S](), typeOf[D]())
}

type memberConfig struct {
	name     string
	from     string
	resolver any
	ignore   bool
	value    any
	hasValue bool
}

// MemberOption configures one destination member.
type MemberOption func(*memberConfig)

// MapFrom reads the member from a dotted source path such as "Customer.Name" or "Lines[0]".
func MapFrom(path string) MemberOption {
	return func(c *memberConfig) { c.from = path }
}

// ResolveUsing computes the member with fn, which receives the source (or an embedded part
// of it) and returns the value, optionally followed by a bool and/or an error.
func ResolveUsing(fn any) MemberOption {
	return func(c *memberConfig) { c.resolver = fn }
}

// Ignore leaves the member untouched.
func Ignore() MemberOption {
	return func(c *memberConfig) { c.ignore = true }
}

// UseValue maps a constant into the member.
func UseValue(v any) MemberOption {
	return func(c *memberConfig) { c.value, c.hasValue = v, true }
}

// ForMember configures the destination member name. A later call for the same name replaces
// the earlier one.
func (tm *TypeMap) ForMember(name string, opts ...MemberOption) *TypeMap {
	cfg := &memberConfig{name: name}
	for _, opt := range opts {
		opt(cfg)
	}

	for i, existing := range tm.configs {
		if existing.name == name {
			tm.configs[i] = cfg
			return tm
		}
	}

	tm.configs = append(tm.configs, cfg)

	return tm
}

// Include links a rule for derived types. Requests for (derived source, this destination)
// resolve to that rule.
func (tm *TypeMap) Include(derived TypePair) *TypeMap {
	tm.includes = append(tm.includes, derived)
	return tm
}

// ConstructUsing creates destinations with fn, func(S) D or func(S) (D, error).
func (tm *TypeMap) ConstructUsing(fn any) *TypeMap {
	tm.construct = fn
	return tm
}

// AfterMap runs fn after members were mapped: func(S, *D) or func(S, *D) error.
func (tm *TypeMap) AfterMap(fn any) *TypeMap {
	tm.afterMaps = append(tm.afterMaps, fn)
	return tm
}

// ReverseMap declares the rule for the swapped pair on the same profile. Members mapped from a
// single source member are mapped back.
func (tm *TypeMap) ReverseMap() *TypeMap {
	rev := tm.profile.CreateMap(tm.Types.Destination, tm.Types.Source)

	for _, cfg := range tm.configs {
		if cfg.from == "" {
			continue
		}

		path, err := fieldpath.Parse(cfg.from)
		if err != nil || len(path.Segments) != 1 || path.Segments[0].Index != fieldpath.NoIndex {
			continue
		}

		rev.ForMember(path.Segments[0].Name, MapFrom(cfg.name))
	}

	return rev
}
