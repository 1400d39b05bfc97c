// Package metrics exposes Prometheus collectors for the screening pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for screening operations.
type Metrics struct {
	ScreeningsTotal   *prometheus.CounterVec
	ScreeningLatency  prometheus.Histogram
	CheckResultsTotal *prometheus.CounterVec
	CheckLatency      *prometheus.HistogramVec
	RFIsPerScreening  prometheus.Histogram
}

// New registers and returns screening metrics collectors.
func New() *Metrics {
	return &Metrics{
		ScreeningsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clearway_screenings_total",
			Help: "Total number of screenings run, labeled by overall severity",
		}, []string{"overall"}),
		ScreeningLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clearway_screening_latency_seconds",
			Help:    "Latency of full screening runs in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		CheckResultsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clearway_check_results_total",
			Help: "Total number of check results, labeled by check name and severity",
		}, []string{"check", "severity"}),
		CheckLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clearway_check_latency_seconds",
			Help:    "Latency of individual checks in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"check"}),
		RFIsPerScreening: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clearway_rfis_per_screening",
			Help:    "Distribution of request-for-information counts per screening",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 7, 10},
		}),
	}
}

// ObserveScreening records the outcome and duration of one screening run.
func (m *Metrics) ObserveScreening(overall string, duration time.Duration, rfis int) {
	m.ScreeningsTotal.WithLabelValues(overall).Inc()
	m.ScreeningLatency.Observe(duration.Seconds())
	m.RFIsPerScreening.Observe(float64(rfis))
}

// ObserveCheck records the outcome and duration of one check.
func (m *Metrics) ObserveCheck(check, severity string, duration time.Duration) {
	m.CheckResultsTotal.WithLabelValues(check, severity).Inc()
	m.CheckLatency.WithLabelValues(check).Observe(duration.Seconds())
}
