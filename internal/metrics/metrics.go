package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "enricher"

// Metrics counts the outcomes of one enrich run. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry
	labels   *prometheus.CounterVec
	fetches  *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		labels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "labels_total",
			Help:      "Labels handled by the enrich run by category and outcome",
		}, []string{"category", "outcome"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Reference service lookups by kind and outcome",
		}, []string{"kind", "outcome"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_rejected_total",
			Help:      "Image candidates dropped by the acceptance policy",
		}, []string{"reason"}),
	}
	m.registry.MustRegister(m.labels, m.fetches, m.rejected)
	return m
}

func (m *Metrics) LabelProcessed(category, outcome string) {
	if m == nil {
		return
	}
	m.labels.WithLabelValues(category, outcome).Inc()
}

func (m *Metrics) Fetch(kind, outcome string) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ImageRejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}

// Registry exposes the underlying registry for inspection.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile dumps all counters in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
