// Package metrics exposes Prometheus collectors for decision processing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for decision operations.
type Metrics struct {
	DecisionsTotal       *prometheus.CounterVec
	DecisionLatency      prometheus.Histogram
	TokenRejectionsTotal *prometheus.CounterVec
	NotifyFailuresTotal  prometheus.Counter
}

// New registers and returns decision metrics collectors.
func New() *Metrics {
	return &Metrics{
		DecisionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clearway_decisions_total",
			Help: "Total number of decisions recorded, labeled by action",
		}, []string{"action"}),
		DecisionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clearway_decision_latency_seconds",
			Help:    "Latency of decision processing in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		TokenRejectionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clearway_decision_token_rejections_total",
			Help: "Total number of rejected decision tokens, labeled by reason",
		}, []string{"reason"}),
		NotifyFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clearway_decision_notify_failures_total",
			Help: "Total number of failed client notifications after a decision",
		}),
	}
}

// ObserveDecision records one completed decision.
func (m *Metrics) ObserveDecision(action string, duration time.Duration) {
	m.DecisionsTotal.WithLabelValues(action).Inc()
	m.DecisionLatency.Observe(duration.Seconds())
}

// IncrementTokenRejection records a rejected decision token.
func (m *Metrics) IncrementTokenRejection(reason string) {
	m.TokenRejectionsTotal.WithLabelValues(reason).Inc()
}

// IncrementNotifyFailure records a failed client notification.
func (m *Metrics) IncrementNotifyFailure() {
	m.NotifyFailuresTotal.Inc()
}
