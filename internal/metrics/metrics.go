// Package metrics counts validations, findings and renders for the HTTP and
// MCP surfaces.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"blueprint/internal/model"
)

// Validation outcomes.
const (
	OutcomeAccepted = "accepted" // every document assembled
	OutcomeRejected = "rejected" // a model invariant failed
	OutcomeInvalid  = "invalid"  // the input could not be decoded
)

// Metrics holds the collectors. A nil *Metrics is a valid no-op.
type Metrics struct {
	// Validations counts validation requests by surface and outcome.
	Validations *prometheus.CounterVec
	// Findings counts rejections by finding kind.
	Findings *prometheus.CounterVec
	// Renders counts rendered activity diagrams by surface.
	Renders *prometheus.CounterVec
	// RenderedLines observes the number of linearized lines per diagram.
	RenderedLines prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blueprint_validations_total",
				Help: "Total number of design validations",
			},
			[]string{"surface", "outcome"},
		),
		Findings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blueprint_findings_total",
				Help: "Total number of rejected validations by finding kind",
			},
			[]string{"kind"},
		),
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blueprint_renders_total",
				Help: "Total number of rendered activity diagrams",
			},
			[]string{"surface"},
		),
		RenderedLines: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "blueprint_rendered_lines",
			Help:    "Lines produced per linearized activity diagram",
			Buckets: prometheus.ExponentialBuckets(4, 2, 8),
		}),
	}
	reg.MustRegister(m.Validations, m.Findings, m.Renders, m.RenderedLines)
	// Pre-create every kind so dashboards show zeroes.
	for _, k := range model.FindingKinds {
		m.Findings.WithLabelValues(string(k))
	}
	return m
}

// ObserveValidation records the result of one validation. A *model.Finding
// in err's chain counts as rejected; any other error as invalid.
func (m *Metrics) ObserveValidation(surface string, err error) {
	if m == nil {
		return
	}
	var f *model.Finding
	switch {
	case err == nil:
		m.Validations.WithLabelValues(surface, OutcomeAccepted).Inc()
	case errors.As(err, &f):
		m.Validations.WithLabelValues(surface, OutcomeRejected).Inc()
		m.Findings.WithLabelValues(string(f.Kind)).Inc()
	default:
		m.Validations.WithLabelValues(surface, OutcomeInvalid).Inc()
	}
}

// ObserveRender records one rendered diagram of the given line count.
func (m *Metrics) ObserveRender(surface string, lines int) {
	if m == nil {
		return
	}
	m.Renders.WithLabelValues(surface).Inc()
	m.RenderedLines.Observe(float64(lines))
}
