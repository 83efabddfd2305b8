// Package metrics exposes Prometheus collectors for validation outcomes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ResultOK labels a document that passed validation
const ResultOK = "ok"

type Metrics struct {
	registry    *prometheus.Registry
	validations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	utxos       prometheus.Counter
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "utxo_lens",
			Name:      "validations_total",
			Help:      "Number of UTxO documents validated, by result code",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "utxo_lens",
			Name:      "validation_duration_seconds",
			Help:      "Time spent parsing and validating a UTxO document",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"operation"}),
		utxos: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "utxo_lens",
			Name:      "validated_utxos_total",
			Help:      "Number of UTxO entries in documents that passed validation",
		}),
	}

	m.registry.MustRegister(m.validations, m.duration, m.utxos)
	return m
}

// Observe records one validation. result is ResultOK or an error code.
func (m *Metrics) Observe(operation, result string, utxos int, elapsed time.Duration) {
	m.validations.WithLabelValues(operation, result).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if result == ResultOK {
		m.utxos.Add(float64(utxos))
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
