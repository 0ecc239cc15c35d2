// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "case_analyzer"

// Outcome labels for analysis metrics.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the Prometheus collectors. A nil *Metrics is valid and
// records nothing, so components can run without instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	// AnalysesTotal counts analysis cycles by kind (document, manual) and outcome.
	AnalysesTotal *prometheus.CounterVec

	// AnalysisDuration measures provider round trips by kind.
	AnalysisDuration *prometheus.HistogramVec

	// ActiveSessions tracks browser sessions held in memory.
	ActiveSessions prometheus.Gauge

	// RejectedSubmissions counts submissions refused before any transition,
	// by reason (busy, invalid, rate_limited).
	RejectedSubmissions *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AnalysesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "analyses_total",
			Help:      "Analysis cycles by kind and outcome.",
		}, []string{"kind", "outcome"}),
		AnalysisDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent waiting on the model provider.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		}, []string{"kind"}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_sessions",
			Help:      "Browser sessions currently held in memory.",
		}),
		RejectedSubmissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rejected_submissions_total",
			Help:      "Submissions refused without a state change, by reason.",
		}, []string{"reason"}),
	}
}

// ObserveAnalysis records one finished analysis cycle.
func (m *Metrics) ObserveAnalysis(kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(kind, outcome).Inc()
	m.AnalysisDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveRejected records a refused submission.
func (m *Metrics) ObserveRejected(reason string) {
	if m == nil {
		return
	}
	m.RejectedSubmissions.WithLabelValues(reason).Inc()
}

// SetSessions sets the active session gauge.
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
