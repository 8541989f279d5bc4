package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's prometheus collectors. A nil *Metrics is
// valid and records nothing, so tests can pass nil.
type Metrics struct {
	turnsTotal    *prometheus.CounterVec
	turnDuration  prometheus.Histogram
	degradedTurns prometheus.Counter
}

// NewMetrics registers the turn collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		turnsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hati_turns_total",
			Help: "Completed turns by specialist agent.",
		}, []string{"agent"}),
		turnDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hati_turn_duration_seconds",
			Help:    "End-to-end turn processing time.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		degradedTurns: factory.NewCounter(prometheus.CounterOpts{
			Name: "hati_degraded_turns_total",
			Help: "Turns where at least one stage fell back.",
		}),
	}
}

// ObserveTurn records one finished turn.
func (m *Metrics) ObserveTurn(agent string, seconds float64, degraded bool) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(agent).Inc()
	m.turnDuration.Observe(seconds)
	if degraded {
		m.degradedTurns.Inc()
	}
}
