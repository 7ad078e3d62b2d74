package engine

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caster-engine/generic"
	"caster-engine/internal/errors"
	"caster-engine/internal/metrics"
)

func TestCompileAllWarmsPlanCache(t *testing.T) {
	p := NewProfile("warm")
	CreateMap[Widget, WidgetDTO](p)
	CreateMap[Category, CategoryDTO](p)
	CreateMap[Box[generic.T1], Wrapper[generic.T1]](p)

	m := metrics.New()
	e := build(t, p, WithMetrics(m), WithConcurrency(2))

	require.NoError(t, e.CompileAll(context.Background()))

	warm := compiled(m)
	misses := testutil.ToFloat64(m.PlanLookups.WithLabelValues(metrics.ResultMiss))
	assert.Positive(t, warm)

	for _, req := range e.warmupRequests() {
		assert.False(t, req.Requested.ContainsGenericParameters(), req.String())
	}

	mapper := NewMapper(e)

	dto, err := Map[Widget, WidgetDTO](mapper, Widget{Name: "bolt", Size: 3})
	require.NoError(t, err)
	assert.Equal(t, WidgetDTO{Name: "bolt", Size: 3}, dto)

	cat, err := Map[Category, CategoryDTO](mapper, Category{Name: "root"})
	require.NoError(t, err)
	assert.Equal(t, "root", cat.Name)

	assert.InDelta(t, warm, compiled(m), 0)
	assert.InDelta(t, misses, testutil.ToFloat64(m.PlanLookups.WithLabelValues(metrics.ResultMiss)), 0)
	assert.Positive(t, testutil.ToFloat64(m.PlanLookups.WithLabelValues(metrics.ResultHit)))
}

func TestCompileAllIncludesMemberPlans(t *testing.T) {
	p := NewProfile("warm")
	CreateMap[Widget, WidgetDTO](p)

	e := build(t, p)

	var names []string
	for _, req := range e.warmupRequests() {
		names = append(names, req.String())
	}

	assert.Equal(t, []string{
		"engine.Widget->engine.WidgetDTO",
		"int->int64 for engine.Widget->engine.WidgetDTO.Size",
		"string->string for engine.Widget->engine.WidgetDTO.Name",
	}, names)
}

func TestCompileAllStopsOnCancel(t *testing.T) {
	p := NewProfile("warm")
	CreateMap[Widget, WidgetDTO](p)

	e := build(t, p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.CompileAll(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
