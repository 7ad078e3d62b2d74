package mapping

import (
	"reflect"

	"caster-engine/engine"
	"caster-engine/internal/errors"
	"caster-engine/internal/fieldpath"
	"caster-engine/internal/typesys"
	"caster-engine/primitive"
)

// Build validates mf and turns each of its profiles into an engine profile. Validation problems
// are returned together as an *engine.ConfigurationError.
func Build(mf *MappingFile, reg *Registry) ([]*engine.Profile, error) {
	if diag := Validate(mf, reg); diag.HasErrors() {
		return nil, &engine.ConfigurationError{Diagnostics: diag}
	}

	defs := mf.AllProfiles()
	out := make([]*engine.Profile, 0, len(defs))

	for _, def := range defs {
		p := engine.NewProfile(def.Name)

		for i := range def.TypeMappings {
			if err := buildMapping(mf, reg, p, &def.TypeMappings[i]); err != nil {
				return nil, errors.Wrapf(err, "profile %q: %s", def.Name, def.TypeMappings[i].String())
			}
		}

		out = append(out, p)
	}

	return out, nil
}

// Engine builds mf and creates an engine from it.
func Engine(mf *MappingFile, reg *Registry, opts ...engine.Option) (*engine.Engine, error) {
	profiles, err := Build(mf, reg)
	if err != nil {
		return nil, err
	}

	return engine.New(profiles, opts...)
}

func buildMapping(mf *MappingFile, reg *Registry, p *engine.Profile, tm *TypeMapping) error {
	src, _ := reg.Lookup(tm.Source)
	dst, _ := reg.Lookup(tm.Target)

	rule := p.CreateMap(src, dst)

	for _, name := range tm.Ignore {
		rule.ForMember(name, engine.Ignore())
	}

	target := typesys.Indirect(dst)

	for _, fm := range tm.TargetsInPriorityOrder() {
		opt, err := memberOption(mf, reg, src, target, fm)
		if err != nil {
			return errors.Wrapf(err, "field %q", fm.Target)
		}

		rule.ForMember(fm.Target, opt)
	}

	for _, inc := range tm.Include {
		s, _ := reg.Lookup(inc.Source)
		d, _ := reg.Lookup(inc.Target)
		rule.Include(engine.TypePair{Source: s, Destination: d})
	}

	if tm.Construct != "" {
		fn, _ := reg.Raw(mf.funcName(tm.Construct))
		rule.ConstructUsing(fn)
	}

	for _, name := range tm.After {
		fn, _ := reg.Raw(mf.funcName(name))
		rule.AfterMap(fn)
	}

	if tm.Reverse {
		rule.ReverseMap()
	}

	return nil
}

func memberOption(mf *MappingFile, reg *Registry, src, target reflect.Type, fm FieldMapping) (engine.MemberOption, error) {
	switch {
	case fm.Transform != "" && fm.Source != "":
		c, err := resolveTransform(mf, reg, fm.Transform)
		if err != nil {
			return nil, err
		}

		path, err := fieldpath.Parse(fm.Source)
		if err != nil {
			return nil, err
		}

		fn, err := compose(src, path, c)
		if err != nil {
			return nil, err
		}

		return engine.ResolveUsing(fn), nil
	case fm.Transform != "":
		fn, _ := reg.Raw(mf.funcName(fm.Transform))
		return engine.ResolveUsing(fn), nil
	case fm.Source != "":
		return engine.MapFrom(fm.Source), nil
	default:
		field, _ := exportedField(target, fm.Target)
		if primitive.IsParsable(field.Type) {
			v, err := primitive.Parse(field.Type, *fm.Default)
			if err != nil {
				return nil, err
			}

			return engine.UseValue(v.Interface()), nil
		}

		return engine.UseValue(*fm.Default), nil
	}
}
