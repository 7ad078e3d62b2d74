package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.PlanCompiled("identity")
	m.PlanCompiled("identity")
	m.PlanLookup(true)
	m.PlanLookup(false)
	m.Resolved(false)
	m.Sealed()

	assert.InDelta(t, 2, testutil.ToFloat64(m.PlansCompiled.WithLabelValues("identity")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PlanLookups.WithLabelValues(ResultHit)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PlanLookups.WithLabelValues(ResultMiss)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Resolutions.WithLabelValues(ResultNone)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SealedMaps), 0)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.PlanCompiled("parse")
		m.PlanLookup(true)
		m.Resolved(true)
		m.Sealed()
	})
}

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New()

	require.NoError(t, m.Register(reg))
	assert.Error(t, m.Register(reg))
}
