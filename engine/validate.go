package engine

import (
	"fmt"
	"reflect"

	"caster-engine/internal/diagnostic"
	"caster-engine/internal/match"
	"caster-engine/internal/plan"
	"caster-engine/node"
)

// AssertValid reports every declared rule that cannot be fully satisfied: destination members
// without a source and members whose types cannot be mapped. All problems are returned as one
// *ValidationError.
func (e *Engine) AssertValid() error {
	diag := e.Validate()
	if diag.HasErrors() {
		return &ValidationError{Diagnostics: diag}
	}

	return nil
}

// Validate collects the diagnostics AssertValid reports.
func (e *Engine) Validate() diagnostic.Diagnostics {
	var diag diagnostic.Diagnostics

	for _, tm := range e.configured {
		pair := tm.Types.String()

		for _, u := range tm.unmapped {
			suggestions := match.Suggest(u.name, u.typ, sourceFields(tm.Types.Source), maxSuggestions)
			diag.AddError(diagnostic.CodeUnmappedMember, "no source member found for "+u.name, pair, u.name, suggestions...)
		}

		for _, m := range tm.members {
			if m.Ignored {
				continue
			}

			if bad, ok := e.unsupportedWithin(TypePair{Source: m.SourceType, Destination: m.DestinationType}); !ok {
				diag.AddError(diagnostic.CodeUnsupportedMember,
					fmt.Sprintf("cannot map %s to %s", typeName(bad.Source), typeName(bad.Destination)), pair, m.Name)
			}
		}
	}

	for _, tmpl := range e.templates {
		diag.AddInfo(diagnostic.CodeOpenGeneric, "validated when instantiated", tmpl.Types.String(), "")
	}

	return diag
}

// unsupportedWithin walks the pairs mapping root needs: rules end the walk, collections and
// pointers continue with their elements. It returns the first pair nothing can map.
func (e *Engine) unsupportedWithin(root TypePair) (TypePair, bool) {
	var dealer node.Dealer

	dealer.Needs(root.Source, root.Destination)

	for {
		src, dst, ok := dealer.NextNeeds()
		if !ok {
			return TypePair{}, true
		}

		pair := TypePair{Source: src, Destination: dst}

		switch {
		case src.Kind() == reflect.Interface:
			// decided by the runtime type
		case e.ResolveTypeMap(pair) != nil:
		case CollectionMapper{}.IsMatch(e, pair):
			if src.Kind() == reflect.Map {
				dealer.Needs(src.Key(), dst.Key())
			}

			dealer.Needs(src.Elem(), dst.Elem())
		case PointerMapper{}.IsMatch(e, pair):
			inner := pointee(pair)
			dealer.Needs(inner.Source, inner.Destination)
		case e.objectMapper(pair) != nil:
		case !plan.Supports(src, dst, e.fallbacks):
			return pair, false
		}
	}
}
