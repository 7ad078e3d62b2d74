package engine

import (
	"reflect"
	"sync"

	"go.uber.org/zap"

	"caster-engine/internal/common"
	"caster-engine/internal/diagnostic"
	"caster-engine/internal/errors"
	"caster-engine/internal/lazy"
	"caster-engine/internal/logger"
	"caster-engine/internal/plan"
	"caster-engine/internal/typesys"
)

// Engine holds the sealed rules and the resolution and plan caches built from them.
type Engine struct {
	opts      Options
	log       *zap.Logger
	fallbacks plan.Fallbacks

	// configured lists closed rules in registration order, templates the open ones.
	configured []*TypeMap
	templates  []*TypeMap
	known      []reflect.Type

	// resolved is written only while building. Afterwards it is read-only and misses go
	// through runtime.
	resolved map[TypePair]*TypeMap
	building bool

	runtime   lazy.Map[TypePair, *TypeMap]
	instances lazy.Map[instanceKey, *TypeMap]
	plans     lazy.Map[MapRequest, *ExecutionPlan]

	// sealMu serializes sealing of maps discovered after the build.
	sealMu sync.Mutex
}

type instanceKey struct {
	template *TypeMap
	pair     TypePair
}

// sealScope holds the pairs whose maps are being sealed by one traversal.
type sealScope map[TypePair]struct{}

// New registers the rules of every profile, validates them, indexes derived rules and seals
// every rule. Any inconsistency fails the whole build with a *ConfigurationError.
func New(profiles []*Profile, opts ...Option) (*Engine, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if len(o.errs) > 0 {
		return nil, errors.Wrap(o.errs[0], "apply engine options")
	}

	e := &Engine{
		opts:      o,
		log:       logger.OrNop(o.Logger),
		fallbacks: o.fallbacks(),
		resolved:  make(map[TypePair]*TypeMap),
		building:  true,
	}

	var diag diagnostic.Diagnostics

	e.register(profiles, &diag)
	e.known = e.knownInterfaces()

	for _, tm := range e.all() {
		tm.validate(e, &diag)
	}

	if !diag.HasErrors() {
		e.indexDerived(&diag)
	}

	if diag.HasErrors() {
		return nil, &ConfigurationError{Diagnostics: diag}
	}

	for _, tm := range e.configured {
		e.sealWithin(tm, sealScope{})
	}

	e.building = false

	e.log.Debug("engine sealed",
		zap.Int(logger.FieldCount, len(e.configured)),
		zap.Int("templates", len(e.templates)),
		zap.Int("known_interfaces", len(e.known)),
		zap.Int("indexed_pairs", len(e.resolved)))

	return e, nil
}

func (e *Engine) register(profiles []*Profile, diag *diagnostic.Diagnostics) {
	owners := make(map[TypePair]string)

	for _, p := range profiles {
		if p == nil {
			continue
		}

		for _, tm := range p.maps {
			if !tm.Types.IsValid() {
				diag.AddError(diagnostic.CodeInvalidRule, "map with a nil type", tm.Types.String(), "")
				continue
			}

			if owner, dup := owners[tm.Types]; dup {
				diag.AddError(diagnostic.CodeDuplicateMap,
					"declared in profile "+quote(owner)+" and again in profile "+quote(p.Name), tm.Types.String(), "")

				continue
			}

			owners[tm.Types] = p.Name

			if tm.IsOpenGeneric() {
				e.templates = append(e.templates, tm)
				continue
			}

			e.configured = append(e.configured, tm)
			e.resolved[tm.Types] = tm
		}
	}
}

func quote(s string) string { return `"` + s + `"` }

func (e *Engine) all() []*TypeMap {
	return append(append([]*TypeMap{}, e.configured...), e.templates...)
}

// knownInterfaces returns interfaces registered through options followed by interfaces used
// as a side of a declared map, in registration order.
func (e *Engine) knownInterfaces() []reflect.Type {
	seen := make(map[reflect.Type]struct{})
	known := common.AppendUnique([]reflect.Type(nil), seen, e.opts.KnownInterfaces...)

	for _, tm := range e.all() {
		for _, t := range []reflect.Type{tm.Types.Source, tm.Types.Destination} {
			if t.Kind() == reflect.Interface && !typesys.IsEmptyInterface(t) {
				known = common.AppendUnique(known, seen, t)
			}
		}
	}

	return known
}

// indexDerived stores every rule reachable through Include under (derived source, base
// destination) unless a rule is declared for that pair.
func (e *Engine) indexDerived(diag *diagnostic.Diagnostics) {
	for _, base := range e.configured {
		visited := map[*TypeMap]struct{}{base: {}}

		for queue := append([]TypePair{}, base.includes...); len(queue) > 0; queue = queue[1:] {
			derived := e.resolved[queue[0]]
			if derived == base {
				diag.AddError(diagnostic.CodeIncludeCycle, "include chain leads back to "+base.Types.String(), base.Types.String(), "")
				break
			}

			if _, ok := visited[derived]; ok {
				continue
			}

			visited[derived] = struct{}{}
			base.included = append(base.included, derived)
			queue = append(queue, derived.includes...)

			key := TypePair{Source: derived.Types.Source, Destination: base.Types.Destination}
			if _, exists := e.resolved[key]; !exists {
				e.resolved[key] = derived
			}
		}
	}
}

// TypeMaps returns the declared closed rules in registration order.
func (e *Engine) TypeMaps() []*TypeMap {
	return append([]*TypeMap{}, e.configured...)
}

// Templates returns the declared open generic rules.
func (e *Engine) Templates() []*TypeMap {
	return append([]*TypeMap{}, e.templates...)
}

// KnownInterfaces returns the interfaces taking part in ancestry search.
func (e *Engine) KnownInterfaces() []reflect.Type {
	return append([]reflect.Type{}, e.known...)
}

// Options returns the options the engine was built with.
func (e *Engine) Options() Options { return e.opts }
