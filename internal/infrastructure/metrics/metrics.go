package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "legalai"

// Metrics groups the Prometheus collectors of the analysis service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	modelRequests *prometheus.CounterVec
	modelLatency  *prometheus.HistogramVec
	tiers         *prometheus.CounterVec
	analyses      *prometheus.CounterVec
}

// New registers all collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		modelRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_requests_total",
			Help:      "Hosted model invocations by model and outcome.",
		}, []string{"model", "outcome"}),
		modelLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_request_duration_seconds",
			Help:      "Latency of a single hosted model HTTP attempt.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"model"}),
		tiers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simplification_tier_total",
			Help:      "Simplification outcomes by the tier that produced them.",
		}, []string{"tier"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Document analyses by outcome.",
		}, []string{"outcome"}),
	}
	registry.MustRegister(m.modelRequests, m.modelLatency, m.tiers, m.analyses)
	return m
}

// ObserveModelCall records one HTTP attempt against a hosted model.
func (m *Metrics) ObserveModelCall(model, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.modelRequests.WithLabelValues(model, outcome).Inc()
	m.modelLatency.WithLabelValues(model).Observe(elapsed.Seconds())
}

// ObserveSimplification counts the tier that resolved a clause.
func (m *Metrics) ObserveSimplification(tier string) {
	if m == nil {
		return
	}
	m.tiers.WithLabelValues(tier).Inc()
}

// ObserveAnalysis counts finished analyses ("ok", "degraded", "failed").
func (m *Metrics) ObserveAnalysis(outcome string) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(outcome).Inc()
}

// Registry exposes the underlying registry for tests and custom collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
