package engine

import (
	"reflect"

	"caster-engine/internal/typesys"
)

// maxNestedLayers bounds how many pointer, sequence and map layers sealNested strips.
const maxNestedLayers = 16

// ResolveTypeMap returns the rule applying to pair, or nil. The result is sealed and the same
// for every call with the same pair.
func (e *Engine) ResolveTypeMap(pair TypePair) *TypeMap {
	if !pair.IsValid() {
		return nil
	}

	tm := e.lookup(pair)
	if tm != nil && !tm.IsSealed() {
		e.sealMu.Lock()
		e.sealWithin(tm, sealScope{})
		e.sealMu.Unlock()
	}

	return tm
}

// lookup returns the cached resolution of pair, searching on a miss. It never seals.
func (e *Engine) lookup(pair TypePair) *TypeMap {
	if tm, ok := e.resolved[pair]; ok {
		return tm
	}

	if e.building {
		tm := e.search(pair)
		e.resolved[pair] = tm

		return tm
	}

	tm, _ := e.runtime.GetOrCompute(pair, func() (*TypeMap, error) {
		found := e.search(pair)
		e.opts.Metrics.Resolved(found != nil)

		return found, nil
	})

	return tm
}

// resolveIn resolves pair while scope is sealing and seals the result unless it is sealed
// already or in progress within scope.
func (e *Engine) resolveIn(scope sealScope, pair TypePair) *TypeMap {
	tm := e.lookup(pair)
	if tm != nil {
		e.sealWithin(tm, scope)
	}

	return tm
}

func (e *Engine) sealWithin(tm *TypeMap, scope sealScope) {
	if tm.IsSealed() {
		return
	}

	if _, inProgress := scope[tm.Types]; inProgress {
		return
	}

	scope[tm.Types] = struct{}{}
	tm.seal(e, scope)
}

// sealNested resolves the rule for member types, looking through pointers, sequences and maps
// until a rule is found.
func (e *Engine) sealNested(scope sealScope, src, dst reflect.Type) *TypeMap {
	for range maxNestedLayers {
		if tm := e.resolveIn(scope, TypePair{Source: src, Destination: dst}); tm != nil {
			return tm
		}

		switch {
		case src.Kind() == reflect.Ptr || dst.Kind() == reflect.Ptr:
			if src.Kind() == reflect.Ptr {
				src = src.Elem()
			}

			if dst.Kind() == reflect.Ptr {
				dst = dst.Elem()
			}
		case typesys.IsSequence(src) && typesys.IsSequence(dst),
			src.Kind() == reflect.Map && dst.Kind() == reflect.Map:
			src, dst = src.Elem(), dst.Elem()
		default:
			return nil
		}
	}

	return nil
}

// search finds the rule for pair: a generic instantiation of the pair itself, then every
// combination of destination ancestors (outer) and source ancestors (inner), nearest first.
// Each combination is looked up in the static store, then instantiated from open rules.
func (e *Engine) search(pair TypePair) *TypeMap {
	if tm := e.instantiate(pair); tm != nil {
		return tm
	}

	sources := typesys.Ancestry(pair.Source, e.known)

	for _, dst := range typesys.Ancestry(pair.Destination, e.known) {
		for _, src := range sources {
			candidate := TypePair{Source: src, Destination: dst}
			if candidate == pair {
				continue
			}

			if tm := e.resolved[candidate]; tm != nil {
				return tm
			}

			if tm := e.instantiate(candidate); tm != nil {
				return tm
			}
		}
	}

	return nil
}

// instantiate specializes the first open rule whose source binds the closed generic source of
// pair and whose destination, with the binding applied, names the destination of pair.
// Instances are created once per rule and pair.
func (e *Engine) instantiate(pair TypePair) *TypeMap {
	if !typesys.IsClosedGeneric(pair.Source) || pair.ContainsGenericParameters() {
		return nil
	}

	for _, tmpl := range e.templates {
		binding, ok := typesys.Bind(tmpl.Types.Source, pair.Source)
		if !ok || !binding.Instantiates(tmpl.Types.Destination, pair.Destination) {
			continue
		}

		tm, _ := e.instances.GetOrCompute(instanceKey{template: tmpl, pair: pair}, func() (*TypeMap, error) {
			return tmpl.instantiate(pair), nil
		})

		return tm
	}

	return nil
}
