// Package monitoring exposes Prometheus metrics for the evaluation
// service: HTTP traffic plus propagation-run counters so operators can
// watch trial volume and the invalid-trial fraction.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Evaluation metrics
	EvaluationsTotal   *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
	EvaluationTrials   prometheus.Histogram
	InvalidFraction    prometheus.Histogram

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// New creates a metrics collector and registers its collectors with the
// default registry.
func New() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uncertaind_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "uncertaind_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		EvaluationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uncertaind_evaluations_total",
				Help: "Total number of propagation runs",
			},
			[]string{"status"},
		),
		EvaluationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "uncertaind_evaluation_duration_seconds",
				Help:    "Propagation run duration in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		EvaluationTrials: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "uncertaind_evaluation_trials",
				Help:    "Monte Carlo trial count per run",
				Buckets: prometheus.ExponentialBuckets(100, 10, 6),
			},
		),
		InvalidFraction: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "uncertaind_invalid_trial_fraction",
				Help:    "Fraction of trials absorbed as numeric-domain sentinels",
				Buckets: []float64{0, .001, .01, .05, .1, .25, .5, 1},
			},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "uncertaind_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}

	go m.updateUptime()
	return m
}

func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordEvaluation records a completed propagation run.
func (m *Metrics) RecordEvaluation(status string, duration time.Duration, trials int, invalidFraction float64) {
	m.EvaluationsTotal.WithLabelValues(status).Inc()
	if status == "ok" {
		m.EvaluationDuration.Observe(duration.Seconds())
		m.EvaluationTrials.Observe(float64(trials))
		m.InvalidFraction.Observe(invalidFraction)
	}
}
