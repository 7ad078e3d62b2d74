package engine

import (
	"reflect"

	"caster-engine/internal/typesys"
)

// Context carries the state of one top level mapping call. It is not safe for concurrent use.
type Context struct {
	// Items holds caller state available to object mappers.
	Items map[string]any

	engine    *Engine
	depth     int
	instances map[instanceRef]reflect.Value
}

type instanceRef struct {
	ptr      uintptr
	src, dst reflect.Type
}

// NewContext starts a mapping call.
func (e *Engine) NewContext() *Context {
	return &Context{
		Items:     make(map[string]any),
		engine:    e,
		instances: make(map[instanceRef]reflect.Value),
	}
}

func (c *Context) Engine() *Engine { return c.engine }

// Depth returns how many rule plans are executing.
func (c *Context) Depth() int { return c.depth }

// Map maps src to a new value of type dst.
func (c *Context) Map(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	var srcType reflect.Type
	if src.IsValid() {
		srcType = src.Type()
	}

	return c.mapValue(src, reflect.Value{}, TypePair{Source: srcType, Destination: dst}, nil)
}

// MapInto maps src onto existing, a settable value whose type is the destination. Nested
// structs and non-nil pointers already present are reused.
func (c *Context) MapInto(src, existing reflect.Value, requested TypePair, member *MemberMap) (reflect.Value, error) {
	return c.mapValue(src, existing, requested, member)
}

// mapValue maps src through the plan for its runtime type. Nil sources produce the zero
// destination.
func (c *Context) mapValue(src, existing reflect.Value, requested TypePair, member *MemberMap) (reflect.Value, error) {
	for src.IsValid() && src.Kind() == reflect.Interface && !src.IsNil() {
		src = src.Elem()
	}

	if typesys.IsNil(src) {
		return reflect.Zero(requested.Destination), nil
	}

	if requested.Source == nil {
		requested.Source = src.Type()
	}

	req := MapRequest{
		Requested: requested,
		Runtime:   TypePair{Source: src.Type(), Destination: requested.Destination},
		Member:    member,
	}

	p, err := c.engine.ExecutionPlan(req)
	if err != nil {
		return reflect.Value{}, err
	}

	return p.Execute(c, src, existing)
}

// atMaxDepth reports whether another rule may not be entered.
func (c *Context) atMaxDepth() bool {
	limit := c.engine.opts.MaxDepth
	return limit > 0 && c.depth >= limit
}

// remember records the destination created for a source pointer so that cycles and shared
// references map to the same destination.
func (c *Context) remember(ref instanceRef, dst reflect.Value) {
	c.instances[ref] = dst
}

func (c *Context) recall(ref instanceRef) (reflect.Value, bool) {
	v, ok := c.instances[ref]
	return v, ok
}
