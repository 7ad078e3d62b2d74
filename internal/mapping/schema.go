package mapping

import (
	"cmp"
	"slices"
)

// DefaultProfile names the profile holding top level mappings.
const DefaultProfile = "default"

// MappingFile represents the root of a YAML mapping definition file.
type MappingFile struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Profiles groups mappings by name.
	Profiles []ProfileDef `yaml:"profiles,omitempty"`

	// TypeMappings belong to DefaultProfile.
	TypeMappings []TypeMapping `yaml:"mappings,omitempty"`

	// Transforms declares the transform functions the mappings use.
	Transforms []TransformDef `yaml:"transforms,omitempty"`
}

// ProfileDef is a named group of mappings.
type ProfileDef struct {
	Name         string        `yaml:"name"`
	TypeMappings []TypeMapping `yaml:"mappings"`
}

// TypeMapping defines how to map one source type to one target type.
type TypeMapping struct {
	// Source type identifier (e.g., "store.Order" or full path).
	Source string `yaml:"source"`

	// Target type identifier (e.g., "warehouse.Order" or full path).
	Target string `yaml:"target"`

	// OneToOne maps source paths to target fields.
	// Example: { "Customer.Email": "CustomerEmail" }
	OneToOne map[string]string `yaml:"121,omitempty"`

	// Fields defines explicit field mappings.
	Fields []FieldMapping `yaml:"fields,omitempty"`

	// Ignore lists target fields that should not be mapped.
	Ignore StringOrArray `yaml:"ignore,omitempty"`

	// Include lists derived pairs mapped by this rule.
	Include []PairRef `yaml:"include,omitempty"`

	// Construct names a transform creating the destination from the source.
	Construct string `yaml:"construct,omitempty"`

	// After names transforms run after the members are mapped.
	After StringOrArray `yaml:"after,omitempty"`

	// Reverse also registers the target -> source rule.
	Reverse bool `yaml:"reverse,omitempty"`
}

// FieldMapping defines how one target field is populated.
type FieldMapping struct {
	// Target is the destination field name.
	Target string `yaml:"target"`

	// Source is a member path on the source type. Empty means the whole source.
	Source string `yaml:"source,omitempty"`

	// Default is a literal assigned when neither Source nor Transform is set. It is converted
	// to the field type when mapping.
	Default *string `yaml:"default,omitempty"`

	// Transform names the function applied to the source value.
	Transform string `yaml:"transform,omitempty"`
}

// TransformDef declares a transform function.
type TransformDef struct {
	// Name used by mappings.
	Name string `yaml:"name"`

	// Func is the registry name of the function. Defaults to Name.
	Func string `yaml:"func,omitempty"`

	// SourceType and TargetType, when set, must match the function signature.
	SourceType string `yaml:"source_type,omitempty"`
	TargetType string `yaml:"target_type,omitempty"`

	Description string `yaml:"description,omitempty"`
}

// PairRef names a source and target type. In YAML it is written "A -> B" or as a mapping
// with source and target keys.
type PairRef struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

func (p PairRef) String() string { return p.Source + " -> " + p.Target }

// String returns "source->target".
func (tm *TypeMapping) String() string {
	return tm.Source + "->" + tm.Target
}

// AllProfiles returns the declared profiles followed by DefaultProfile when top level
// mappings exist. Profiles sharing a name are merged.
func (mf *MappingFile) AllProfiles() []ProfileDef {
	var (
		out   []ProfileDef
		index = make(map[string]int)
	)

	add := func(name string, maps []TypeMapping) {
		if i, ok := index[name]; ok {
			out[i].TypeMappings = append(out[i].TypeMappings, maps...)
			return
		}

		index[name] = len(out)
		out = append(out, ProfileDef{Name: name, TypeMappings: append([]TypeMapping(nil), maps...)})
	}

	for _, p := range mf.Profiles {
		add(cmp.Or(p.Name, DefaultProfile), p.TypeMappings)
	}

	if len(mf.TypeMappings) > 0 {
		add(DefaultProfile, mf.TypeMappings)
	}

	return out
}

// Transform returns the declaration named name.
func (mf *MappingFile) Transform(name string) (*TransformDef, bool) {
	i := slices.IndexFunc(mf.Transforms, func(t TransformDef) bool { return t.Name == name })
	if i < 0 {
		return nil, false
	}

	return &mf.Transforms[i], true
}

// TargetsInPriorityOrder lists the entries applied for tm, lowest priority first, so that
// applying them in order lets higher priorities win.
func (tm *TypeMapping) TargetsInPriorityOrder() []FieldMapping {
	out := make([]FieldMapping, 0, len(tm.Fields)+len(tm.OneToOne))
	out = append(out, tm.Fields...)

	sources := make([]string, 0, len(tm.OneToOne))
	for src := range tm.OneToOne {
		sources = append(sources, src)
	}

	slices.Sort(sources)

	for _, src := range sources {
		out = append(out, FieldMapping{Target: tm.OneToOne[src], Source: src})
	}

	return out
}
