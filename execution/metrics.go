package execution

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "spandb"

type Metrics struct {
	TuplesProduced        *prometheus.CounterVec
	OperatorErrors        *prometheus.CounterVec
	JoinSpanPairsCompared prometheus.Counter
	JoinSpansMerged       prometheus.Counter
}

// NewMetrics creates the executor metrics and registers them on reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TuplesProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tuples_produced_total",
			Help:      "Number of tuples an operator returned from Next.",
		}, []string{"operator"}),
		OperatorErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "operator_errors_total",
			Help:      "Number of errors operators returned, by error kind.",
		}, []string{"operator", "kind"}),
		JoinSpanPairsCompared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "join_span_pairs_compared_total",
			Help:      "Number of span pairs the join tested against its distance predicate.",
		}),
		JoinSpansMerged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "join_spans_merged_total",
			Help:      "Number of merged spans the join produced.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.TuplesProduced, m.OperatorErrors, m.JoinSpanPairsCompared, m.JoinSpansMerged)
	}
	return m
}
