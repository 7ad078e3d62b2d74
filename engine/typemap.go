package engine

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"caster-engine/internal/diagnostic"
	"caster-engine/internal/errors"
	"caster-engine/internal/fieldpath"
	"caster-engine/internal/match"
	"caster-engine/internal/typesys"
	"caster-engine/node"
)

const maxSuggestions = 3

// TypeMap is the rule for one TypePair. It is configured through its Profile, sealed once by
// the Engine and read-only afterwards.
type TypeMap struct {
	Types TypePair

	profile   *Profile
	configs   []*memberConfig
	includes  []TypePair
	construct any
	afterMaps []any
	// template is the open rule this map was instantiated from.
	template *TypeMap

	constructor *node.Caster
	after       []afterFunc
	included    []*TypeMap

	sealed   atomic.Bool
	members  []*MemberMap
	unmapped []unmappedMember
}

type unmappedMember struct {
	name string
	typ  reflect.Type
}

// MemberMap maps one destination member of a sealed TypeMap.
type MemberMap struct {
	TypeMap         *TypeMap
	Name            string
	DestinationType reflect.Type
	// SourceType is the declared type of the value read for the member.
	SourceType reflect.Type
	// SourcePath describes where the value comes from: a member path, "resolver" or "value".
	SourcePath string
	Ignored    bool
	// Nested is the rule found for the member types when the map was sealed, if any.
	Nested *TypeMap

	index       []int
	accessor    typesys.Accessor
	resolver    *node.Caster
	constant    reflect.Value
	hasConstant bool
}

func (m *MemberMap) String() string {
	return m.TypeMap.Types.String() + "." + m.Name
}

func (tm *TypeMap) String() string { return tm.Types.String() }

// ProfileName returns the name of the profile that declared the rule.
func (tm *TypeMap) ProfileName() string {
	if tm.profile == nil {
		return ""
	}

	return tm.profile.Name
}

// IsOpenGeneric reports rules declared with placeholders. They are only instantiated.
func (tm *TypeMap) IsOpenGeneric() bool {
	return tm.Types.ContainsGenericParameters()
}

// Template returns the open rule tm was instantiated from.
func (tm *TypeMap) Template() *TypeMap { return tm.template }

func (tm *TypeMap) IsSealed() bool { return tm.sealed.Load() }

// Members returns the bound members in destination field order. Empty until sealed.
func (tm *TypeMap) Members() []*MemberMap {
	if !tm.IsSealed() {
		return nil
	}

	return tm.members
}

// Unmapped returns destination members for which no source was found.
func (tm *TypeMap) Unmapped() []string {
	if !tm.IsSealed() {
		return nil
	}

	names := make([]string, len(tm.unmapped))
	for i, u := range tm.unmapped {
		names[i] = u.name
	}

	return names
}

// Included returns the transitive closure of rules linked with Include.
func (tm *TypeMap) Included() []*TypeMap { return tm.included }

func (tm *TypeMap) config(name string) *memberConfig {
	for _, c := range tm.configs {
		if c.name == name {
			return c
		}
	}

	return nil
}

// validate checks the configuration against the declared types and parses typed functions.
func (tm *TypeMap) validate(e *Engine, diag *diagnostic.Diagnostics) {
	pair := tm.Types.String()
	src, dst := tm.Types.Source, tm.Types.Destination

	if tm.IsOpenGeneric() {
		tm.validateOpen(diag)
	}

	for _, cfg := range tm.configs {
		tm.validateMember(cfg, diag)
	}

	if tm.construct != nil {
		caster, err := node.ParseCaster(tm.construct)

		switch {
		case err != nil:
			diag.AddError(diagnostic.CodeBadFunc, "ConstructUsing: "+err.Error(), pair, "")
		case !typesys.CanUpcast(src, caster.Src):
			diag.AddError(diagnostic.CodeBadFunc, fmt.Sprintf("ConstructUsing %s does not accept %s", caster, src), pair, "")
		case !caster.Dst.AssignableTo(dst) && !(dst.Kind() == reflect.Ptr && caster.Dst == dst.Elem()):
			diag.AddError(diagnostic.CodeBadFunc, fmt.Sprintf("ConstructUsing %s returns %s, not %s", caster, caster.Dst, dst), pair, "")
		default:
			tm.constructor = &caster
		}
	}

	tm.after = tm.after[:0]

	for _, fn := range tm.afterMaps {
		after, err := parseAfterMap(fn, tm.Types)
		if err != nil {
			diag.AddError(diagnostic.CodeBadFunc, "AfterMap: "+err.Error(), pair, "")
			continue
		}

		tm.after = append(tm.after, after)
	}

	for _, inc := range tm.includes {
		switch {
		case !inc.IsValid():
			diag.AddError(diagnostic.CodeMissingInclude, "Include with a nil type", pair, "")
		case e.resolved[inc] == nil:
			diag.AddError(diagnostic.CodeMissingInclude, "included map "+inc.String()+" is not declared", pair, "")
		case !typesys.CanUpcast(inc.Source, src):
			diag.AddError(diagnostic.CodeInvalidRule, fmt.Sprintf("included source %s does not derive from %s", inc.Source, src), pair, "")
		}
	}
}

func (tm *TypeMap) validateOpen(diag *diagnostic.Diagnostics) {
	pair := tm.Types.String()
	src, dst := tm.Types.Source, tm.Types.Destination

	if _, ok := typesys.ParseGeneric(src); !ok || !typesys.ContainsPlaceholders(src) {
		diag.AddError(diagnostic.CodeOpenGeneric, "source of an open generic map must instantiate a generic type with placeholders", pair, "")
		return
	}

	if typesys.ContainsPlaceholders(dst) {
		if _, ok := typesys.ParseGeneric(dst); !ok {
			diag.AddError(diagnostic.CodeOpenGeneric, "destination placeholders must be arguments of a generic type", pair, "")
		}
	}

	if unbound := typesys.PatternTokens(src).Unbound(dst); len(unbound) > 0 {
		diag.AddError(diagnostic.CodeOpenGeneric, fmt.Sprintf("destination uses placeholders %v the source does not declare", unbound), pair, "")
	}

	if tm.construct != nil || len(tm.afterMaps) > 0 {
		diag.AddError(diagnostic.CodeOpenGeneric, "open generic maps cannot use ConstructUsing or AfterMap", pair, "")
	}
}

func (tm *TypeMap) validateMember(cfg *memberConfig, diag *diagnostic.Diagnostics) {
	pair := tm.Types.String()
	dst := typesys.Indirect(tm.Types.Destination)

	field, ok := reflect.StructField{}, false
	if dst.Kind() == reflect.Struct {
		field, ok = dst.FieldByName(cfg.name)
	}

	if !ok || !field.IsExported() {
		var fields []match.Field
		if dst.Kind() == reflect.Struct {
			for _, f := range reflect.VisibleFields(dst) {
				if f.IsExported() && !f.Anonymous {
					fields = append(fields, match.Field{Name: f.Name, Type: f.Type})
				}
			}
		}

		diag.AddError(diagnostic.CodeUnknownMember, fmt.Sprintf("%s has no settable member %q", dst, cfg.name),
			pair, cfg.name, match.Suggest(cfg.name, nil, fields, maxSuggestions)...)

		return
	}

	if cfg.from != "" {
		path, err := fieldpath.Parse(cfg.from)
		if err == nil {
			_, err = typesys.Resolve(tm.Types.Source, path)
		}

		if err != nil {
			diag.AddError(diagnostic.CodeBadSourcePath, err.Error(), pair, cfg.name,
				match.Suggest(cfg.from, field.Type, sourceFields(tm.Types.Source), maxSuggestions)...)
		}
	}

	if cfg.resolver != nil {
		caster, err := node.ParseCaster(cfg.resolver)

		switch {
		case err != nil:
			diag.AddError(diagnostic.CodeBadFunc, "ResolveUsing: "+err.Error(), pair, cfg.name)
		case tm.IsOpenGeneric():
			diag.AddError(diagnostic.CodeOpenGeneric, "open generic maps cannot use ResolveUsing", pair, cfg.name)
		case !typesys.CanUpcast(tm.Types.Source, caster.Src):
			diag.AddError(diagnostic.CodeBadFunc, fmt.Sprintf("ResolveUsing %s does not accept %s", caster, tm.Types.Source), pair, cfg.name)
		}
	}
}

func sourceFields(t reflect.Type) []match.Field {
	steps := typesys.ReadableMembers(t)

	fields := make([]match.Field, len(steps))
	for i, s := range steps {
		fields[i] = match.Field{Name: s.Name, Type: s.Type}
	}

	return fields
}

// seal binds every settable destination member. Member types needing a nested rule are
// resolved within scope, which may seal other maps on demand.
func (tm *TypeMap) seal(e *Engine, scope sealScope) {
	src := tm.Types.Source
	dst := typesys.Indirect(tm.Types.Destination)

	var (
		members  []*MemberMap
		unmapped []unmappedMember
	)

	if dst.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(dst) {
			if f.Anonymous || !f.IsExported() || !settablePath(dst, f.Index) {
				continue
			}

			mm := &MemberMap{TypeMap: tm, Name: f.Name, DestinationType: f.Type, index: f.Index}
			if !tm.bindMember(mm, src, tm.config(f.Name)) {
				unmapped = append(unmapped, unmappedMember{name: f.Name, typ: f.Type})
				continue
			}

			if !mm.Ignored && mm.SourceType != nil {
				mm.Nested = e.sealNested(scope, mm.SourceType, mm.DestinationType)
			}

			members = append(members, mm)
		}
	}

	tm.members, tm.unmapped = members, unmapped
	tm.sealed.Store(true)
	e.opts.Metrics.Sealed()
}

func (tm *TypeMap) bindMember(mm *MemberMap, src reflect.Type, cfg *memberConfig) bool {
	switch {
	case cfg != nil && cfg.ignore:
		mm.Ignored = true
	case cfg != nil && cfg.hasValue:
		mm.constant, mm.hasConstant = reflect.ValueOf(cfg.value), true
		mm.SourcePath = "value"

		mm.SourceType = mm.DestinationType
		if mm.constant.IsValid() {
			mm.SourceType = mm.constant.Type()
		}
	case cfg != nil && cfg.resolver != nil:
		caster, err := node.ParseCaster(cfg.resolver)
		if err != nil {
			return false
		}

		mm.resolver, mm.SourceType, mm.SourcePath = &caster, caster.Dst, "resolver"
	case cfg != nil && cfg.from != "":
		path, err := fieldpath.Parse(cfg.from)
		if err != nil {
			return false
		}

		acc, err := typesys.Resolve(src, path)
		if err != nil {
			return false
		}

		mm.accessor, mm.SourceType, mm.SourcePath = acc, acc.Type(), path.String()
	default:
		acc, ok := typesys.Flatten(src, mm.Name)
		if !ok {
			return false
		}

		mm.accessor, mm.SourceType, mm.SourcePath = acc, acc.Type(), acc.String()
	}

	return true
}

// settablePath rejects promoted fields reached through an unexported embedded pointer,
// which cannot be allocated through reflection.
func settablePath(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Ptr && !f.IsExported() {
			return false
		}

		t = typesys.Indirect(f.Type)
	}

	return true
}

// instantiate specializes an open rule for a closed pair. Member configuration is shared.
func (tm *TypeMap) instantiate(pair TypePair) *TypeMap {
	return &TypeMap{
		Types:    pair,
		profile:  tm.profile,
		configs:  tm.configs,
		template: tm,
	}
}

// read produces the source value of a member. An invalid Value means the value is absent.
func (m *MemberMap) read(src reflect.Value) (reflect.Value, error) {
	switch {
	case m.hasConstant:
		return m.constant, nil
	case m.resolver != nil:
		arg, ok := typesys.Upcast(src, m.resolver.Src)
		if !ok {
			return reflect.Value{}, errors.Newf("resolver %s does not accept %s", m.resolver, src.Type())
		}

		out, ok, err := m.resolver.Call(arg)
		if err != nil || !ok {
			return reflect.Value{}, err
		}

		return out, nil
	default:
		return m.accessor.Get(src)
	}
}

type afterFunc struct {
	fn     reflect.Value
	src    reflect.Type
	dst    reflect.Type
	hasErr bool
}

func parseAfterMap(fn any, pair TypePair) (afterFunc, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return afterFunc{}, node.ErrCasterIsNotAFunction
	}

	t := v.Type()
	if t.NumIn() != 2 || t.IsVariadic() || t.NumOut() > 1 || (t.NumOut() == 1 && t.Out(0) != errorType) {
		return afterFunc{}, errors.Newf("%s must be func(source, *destination) [error]", t)
	}

	after := afterFunc{fn: v, src: t.In(0), dst: t.In(1), hasErr: t.NumOut() == 1}

	if !typesys.CanUpcast(pair.Source, after.src) {
		return afterFunc{}, errors.Newf("%s does not accept source %s", t, pair.Source)
	}

	dst := typesys.Indirect(pair.Destination)
	if !typesys.CanUpcast(reflect.PointerTo(dst), after.dst) && !pair.Destination.AssignableTo(after.dst) {
		return afterFunc{}, errors.Newf("%s does not accept destination %s", t, pair.Destination)
	}

	return after, nil
}

// call runs the hook with the source and the destination being built. target is the
// addressable struct behind out when there is one.
func (a afterFunc) call(src, out, target reflect.Value) error {
	srcArg, ok := typesys.Upcast(src, a.src)
	if !ok {
		return errors.Newf("after map hook does not accept %s", src.Type())
	}

	view := out
	if target.IsValid() && target.CanAddr() {
		view = target.Addr()
	}

	dstArg, ok := typesys.Upcast(view, a.dst)
	if !ok {
		if dstArg, ok = typesys.Upcast(out, a.dst); !ok {
			return errors.Newf("after map hook does not accept %s", out.Type())
		}
	}

	results := a.fn.Call([]reflect.Value{srcArg, dstArg})
	if a.hasErr && !results[0].IsNil() {
		return results[0].Interface().(error)
	}

	return nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()
