package engine

import (
	"reflect"

	"go.uber.org/zap"

	"caster-engine/internal/errors"
	"caster-engine/internal/logger"
	"caster-engine/internal/plan"
	"caster-engine/internal/typesys"
)

// PlanFunc maps src into a value of the runtime destination type. dst is an existing
// destination that may be reused, or an invalid Value.
type PlanFunc func(ctx *Context, src, dst reflect.Value) (reflect.Value, error)

// ExecutionPlan is a compiled mapping routine for one MapRequest.
type ExecutionPlan struct {
	Request  MapRequest
	Strategy plan.Strategy
	// TypeMap is set for StrategyTypeMap.
	TypeMap *TypeMap
	// Mapper names the object mapper for StrategyObjectMapper.
	Mapper string

	run PlanFunc
}

// Execute runs the plan. Failures that are not engine errors are wrapped in a
// *MappingExecutionError carrying the runtime pair and member.
func (p *ExecutionPlan) Execute(ctx *Context, src, dst reflect.Value) (reflect.Value, error) {
	out, err := p.run(ctx, src, dst)
	if err == nil {
		return out, nil
	}

	if isEngineError(err) {
		return reflect.Value{}, err
	}

	return reflect.Value{}, &MappingExecutionError{Types: p.Request.Runtime, Member: p.Request.Member, Err: err}
}

func (p *ExecutionPlan) String() string {
	s := p.Request.String() + ": " + p.Strategy.String()

	switch {
	case p.TypeMap != nil:
		s += " " + p.TypeMap.String()
	case p.Mapper != "":
		s += " " + p.Mapper
	}

	return s
}

// ExecutionPlan returns the plan for req, compiling it on first use. Concurrent callers of the
// same request share one compilation and receive the same plan.
func (e *Engine) ExecutionPlan(req MapRequest) (*ExecutionPlan, error) {
	if !req.Runtime.IsValid() {
		return nil, errors.Newf("incomplete type pair %s", req.Runtime)
	}

	if p, ok := e.plans.Load(req); ok && p != nil {
		e.opts.Metrics.PlanLookup(true)
		return p, nil
	}

	e.opts.Metrics.PlanLookup(false)

	return e.plans.GetOrCompute(req, func() (*ExecutionPlan, error) {
		return e.compile(req)
	})
}

// compile builds the plan from the rule for the runtime pair, else the first matching object
// mapper, else the fallback cascade.
func (e *Engine) compile(req MapRequest) (*ExecutionPlan, error) {
	p := &ExecutionPlan{Request: req}

	if tm := e.ResolveTypeMap(req.Runtime); tm != nil {
		run, err := e.typeMapPlan(tm, req)
		if err != nil {
			return nil, err
		}

		p.Strategy, p.TypeMap, p.run = plan.StrategyTypeMap, tm, run
	} else if m := e.objectMapper(req.Runtime); m != nil {
		run, err := m.Build(e, req)
		if err != nil {
			return nil, errors.Wrapf(err, "object mapper %s", m.Name())
		}

		p.Strategy, p.Mapper, p.run = plan.StrategyObjectMapper, m.Name(), run
	} else {
		strategy, convert := plan.Select(req.Runtime.Source, req.Runtime.Destination, e.fallbacks)
		p.Strategy = strategy

		if convert == nil {
			p.run = unsupported(req)
		} else {
			p.run = func(_ *Context, src, _ reflect.Value) (reflect.Value, error) { return convert(src) }
		}
	}

	e.opts.Metrics.PlanCompiled(p.Strategy.String())
	e.log.Debug("plan compiled",
		zap.Stringer(logger.FieldPair, req.Requested),
		zap.Stringer(logger.FieldRuntimePair, req.Runtime),
		zap.Stringer(logger.FieldStrategy, p.Strategy))

	return p, nil
}

func unsupported(req MapRequest) PlanFunc {
	return func(*Context, reflect.Value, reflect.Value) (reflect.Value, error) {
		return reflect.Value{}, &UnsupportedMappingError{Types: req.Runtime, Member: req.Member}
	}
}

type boundMember struct {
	*MemberMap
	index []int
}

// typeMapPlan compiles tm for the runtime pair of req. Members are bound by name when the
// runtime destination differs from the rule's destination.
func (e *Engine) typeMapPlan(tm *TypeMap, req MapRequest) (PlanFunc, error) {
	dstType := req.Runtime.Destination

	build, err := constructedType(tm, dstType)
	if err != nil {
		return nil, err
	}

	base := typesys.Indirect(build)
	members := bindMembers(tm, base)

	return func(ctx *Context, src, existing reflect.Value) (reflect.Value, error) {
		if ctx.atMaxDepth() {
			return reflect.Zero(dstType), nil
		}

		ctx.depth++
		defer func() { ctx.depth-- }()

		out, target, err := tm.newDestination(src, existing, build, dstType)
		if err != nil {
			return reflect.Value{}, &MappingExecutionError{Types: req.Runtime, Member: req.Member, Err: err}
		}

		if target.IsValid() && target.Kind() == reflect.Struct {
			for _, m := range members {
				if err := m.apply(ctx, req.Runtime, src, target); err != nil {
					return reflect.Value{}, err
				}
			}
		}

		for _, after := range tm.after {
			if err := after.call(src, out, target); err != nil {
				return reflect.Value{}, &MappingExecutionError{Types: req.Runtime, Member: req.Member, Err: err}
			}
		}

		return out, nil
	}, nil
}

// constructedType picks the type a plan creates for the runtime destination dst.
func constructedType(tm *TypeMap, dst reflect.Type) (reflect.Type, error) {
	if dst.Kind() == reflect.Ptr && dst.Elem().Kind() == reflect.Ptr {
		return nil, errors.Newf("cannot map %s into multi-level pointer %s", tm.Types, dst)
	}

	if dst.Kind() != reflect.Interface {
		return dst, nil
	}

	switch declared := tm.Types.Destination; {
	case tm.constructor != nil:
		return tm.constructor.Dst, nil
	case declared.Kind() != reflect.Interface && declared.AssignableTo(dst):
		return declared, nil
	case declared.Kind() == reflect.Struct && reflect.PointerTo(declared).AssignableTo(dst):
		return reflect.PointerTo(declared), nil
	default:
		return nil, errors.WithHint(
			errors.Newf("cannot construct interface %s for %s", dst, tm.Types),
			"use ConstructUsing on the map")
	}
}

func bindMembers(tm *TypeMap, base reflect.Type) []boundMember {
	declared := typesys.Indirect(tm.Types.Destination)

	var members []boundMember

	for _, m := range tm.members {
		if m.Ignored {
			continue
		}

		if base == declared {
			members = append(members, boundMember{MemberMap: m, index: m.index})
			continue
		}

		if base.Kind() != reflect.Struct {
			continue
		}

		f, ok := base.FieldByName(m.Name)
		if !ok || !f.IsExported() || !settablePath(base, f.Index) {
			continue
		}

		members = append(members, boundMember{MemberMap: m, index: f.Index})
	}

	return members
}

// newDestination returns the value the plan returns and the addressable struct to populate.
// An existing destination is reused when it can be written.
func (tm *TypeMap) newDestination(src, existing reflect.Value, build, dstType reflect.Type) (out, target reflect.Value, err error) {
	if existing.IsValid() && existing.Type() == build {
		switch {
		case build.Kind() == reflect.Ptr && !existing.IsNil():
			return existing, existing.Elem(), nil
		case build.Kind() == reflect.Struct && existing.CanSet():
			return existing, existing, nil
		}
	}

	if tm.constructor != nil {
		arg, ok := typesys.Upcast(src, tm.constructor.Src)
		if !ok {
			return out, target, errors.Newf("constructor %s does not accept %s", tm.constructor, src.Type())
		}

		v, _, err := tm.constructor.Call(arg)
		if err != nil {
			return out, target, err
		}

		if dstType.Kind() == reflect.Ptr && v.Type() == dstType.Elem() {
			ptr := reflect.New(v.Type())
			ptr.Elem().Set(v)
			v = ptr
		}

		return settle(v)
	}

	switch build.Kind() {
	case reflect.Ptr:
		out = reflect.New(build.Elem())
		return out, out.Elem(), nil
	default:
		out = reflect.New(build).Elem()
		return out, out, nil
	}
}

// settle makes a constructed value writable: pointers are populated through their target,
// other values through an addressable copy.
func settle(v reflect.Value) (out, target reflect.Value, err error) {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}

	if v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return out, target, errors.New("constructor returned nil")
		}

		return v, v.Elem(), nil
	}

	out = reflect.New(v.Type()).Elem()
	out.Set(v)

	return out, out, nil
}

// apply maps one member. Read failures are reported against pair, the runtime types.
func (m boundMember) apply(ctx *Context, pair TypePair, src, target reflect.Value) error {
	value, err := m.read(src)
	if err != nil {
		return &MappingExecutionError{Types: pair, Member: m.MemberMap, Err: err}
	}

	field := typesys.Settable(target, m.index)
	if !value.IsValid() {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	mapped, err := ctx.mapValue(value, field, TypePair{Source: m.SourceType, Destination: field.Type()}, m.MemberMap)
	if err != nil {
		return err
	}

	field.Set(mapped)

	return nil
}
