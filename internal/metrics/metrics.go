// Package metrics exposes prometheus counters for plan compilation and cache use.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"caster-engine/internal/errors"
)

const namespace = "caster_engine"

// Lookup results.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
	ResultRule = "rule"
	ResultNone = "none"
)

// Metrics holds the engine collectors. A nil *Metrics records nothing.
type Metrics struct {
	PlansCompiled *prometheus.CounterVec
	PlanLookups   *prometheus.CounterVec
	Resolutions   *prometheus.CounterVec
	SealedMaps    prometheus.Counter
}

// New creates unregistered collectors.
func New() *Metrics {
	return &Metrics{
		PlansCompiled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_compiled_total",
			Help:      "Execution plans compiled, by strategy.",
		}, []string{"strategy"}),
		PlanLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_lookups_total",
			Help:      "Execution plan cache lookups, by result.",
		}, []string{"result"}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runtime_resolutions_total",
			Help:      "Type pair resolutions computed after build, by result.",
		}, []string{"result"}),
		SealedMaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sealed_maps_total",
			Help:      "Type maps sealed, including generic instantiations.",
		}),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.PlansCompiled, m.PlanLookups, m.Resolutions, m.SealedMaps} {
		if err := reg.Register(c); err != nil {
			return errors.Wrap(err, "register engine metrics")
		}
	}

	return nil
}

func (m *Metrics) PlanCompiled(strategy string) {
	if m != nil {
		m.PlansCompiled.WithLabelValues(strategy).Inc()
	}
}

func (m *Metrics) PlanLookup(hit bool) {
	if m == nil {
		return
	}

	if hit {
		m.PlanLookups.WithLabelValues(ResultHit).Inc()
	} else {
		m.PlanLookups.WithLabelValues(ResultMiss).Inc()
	}
}

func (m *Metrics) Resolved(found bool) {
	if m == nil {
		return
	}

	if found {
		m.Resolutions.WithLabelValues(ResultRule).Inc()
	} else {
		m.Resolutions.WithLabelValues(ResultNone).Inc()
	}
}

func (m *Metrics) Sealed() {
	if m != nil {
		m.SealedMaps.Inc()
	}
}
