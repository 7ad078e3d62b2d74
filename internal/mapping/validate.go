package mapping

import (
	"fmt"
	"reflect"

	"caster-engine/internal/diagnostic"
	"caster-engine/internal/fieldpath"
	"caster-engine/internal/typesys"
	"caster-engine/primitive"
)

// Validate checks mf against the types and functions known to reg. It reports every problem
// it finds rather than stopping at the first.
func Validate(mf *MappingFile, reg *Registry) diagnostic.Diagnostics {
	var diag diagnostic.Diagnostics

	seen := make(map[string]bool, len(mf.Transforms))
	for _, t := range mf.Transforms {
		if seen[t.Name] {
			diag.AddError(diagnostic.CodeInvalidRule, fmt.Sprintf("transform %q is declared twice", t.Name), "", "")
			continue
		}

		seen[t.Name] = true

		if _, err := resolveTransform(mf, reg, t.Name); err != nil {
			diag.AddError(diagnostic.CodeUnknownTransform, err.Error(), "", "", reg.FuncNames()...)
		}
	}

	for _, p := range mf.AllProfiles() {
		for i := range p.TypeMappings {
			validateMapping(mf, reg, &p.TypeMappings[i], &diag)
		}
	}

	return diag
}

func validateMapping(mf *MappingFile, reg *Registry, tm *TypeMapping, diag *diagnostic.Diagnostics) {
	pair := tm.String()

	src, srcOK := reg.Lookup(tm.Source)
	if !srcOK {
		diag.AddError(diagnostic.CodeUnknownType, fmt.Sprintf("source type %q not found", tm.Source), pair, "", reg.Similar(tm.Source)...)
	}

	dst, dstOK := reg.Lookup(tm.Target)
	if !dstOK {
		diag.AddError(diagnostic.CodeUnknownType, fmt.Sprintf("target type %q not found", tm.Target), pair, "", reg.Similar(tm.Target)...)
	}

	for _, inc := range tm.Include {
		for _, id := range []string{inc.Source, inc.Target} {
			if _, ok := reg.Lookup(id); !ok {
				diag.AddError(diagnostic.CodeUnknownType, fmt.Sprintf("included type %q not found", id), pair, "", reg.Similar(id)...)
			}
		}
	}

	if tm.Construct != "" {
		if _, err := resolveTransform(mf, reg, tm.Construct); err != nil {
			diag.AddError(diagnostic.CodeUnknownTransform, "construct: "+err.Error(), pair, "")
		}
	}

	for _, name := range tm.After {
		if _, ok := reg.Raw(mf.funcName(name)); !ok {
			diag.AddError(diagnostic.CodeUnknownTransform, fmt.Sprintf("after: function %q is not registered", name), pair, "")
		}
	}

	if !srcOK || !dstOK {
		return
	}

	target := typesys.Indirect(dst)

	for _, name := range tm.Ignore {
		if _, ok := exportedField(target, name); !ok {
			diag.AddError(diagnostic.CodeUnknownMember, fmt.Sprintf("%s has no field %q to ignore", target, name), pair, name)
		}
	}

	for _, fm := range tm.TargetsInPriorityOrder() {
		validateField(mf, reg, src, target, pair, fm, diag)
	}
}

func validateField(mf *MappingFile, reg *Registry, src, target reflect.Type, pair string, fm FieldMapping, diag *diagnostic.Diagnostics) {
	field, ok := exportedField(target, fm.Target)
	if !ok {
		diag.AddError(diagnostic.CodeUnknownMember, fmt.Sprintf("%s has no field %q", target, fm.Target), pair, fm.Target)
		return
	}

	if fm.Source == "" && fm.Transform == "" && fm.Default == nil {
		diag.AddError(diagnostic.CodeInvalidRule, "field needs a source, a transform or a default", pair, fm.Target)
		return
	}

	if fm.Default != nil && primitive.IsParsable(field.Type) {
		if _, err := primitive.Parse(field.Type, *fm.Default); err != nil {
			diag.AddError(diagnostic.CodeInvalidRule, fmt.Sprintf("default %q: %v", *fm.Default, err), pair, fm.Target)
		}
	}

	var path fieldpath.Path

	if fm.Source != "" {
		var err error

		path, err = fieldpath.Parse(fm.Source)
		if err == nil {
			_, err = typesys.Resolve(src, path)
		}

		if err != nil {
			diag.AddError(diagnostic.CodeBadSourcePath, err.Error(), pair, fm.Target)
			return
		}
	}

	if fm.Transform == "" {
		return
	}

	c, err := resolveTransform(mf, reg, fm.Transform)
	if err != nil {
		diag.AddError(diagnostic.CodeUnknownTransform, err.Error(), pair, fm.Target)
		return
	}

	if fm.Source != "" {
		if _, err := compose(src, path, c); err != nil {
			diag.AddError(diagnostic.CodeBadFunc, err.Error(), pair, fm.Target)
		}

		return
	}

	if !typesys.CanUpcast(src, c.Src) {
		diag.AddError(diagnostic.CodeBadFunc, fmt.Sprintf("%s does not accept %s", c, src), pair, fm.Target)
	}
}

func exportedField(t reflect.Type, name string) (reflect.StructField, bool) {
	if t.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}

	f, ok := t.FieldByName(name)
	if !ok || !f.IsExported() {
		return reflect.StructField{}, false
	}

	return f, true
}
