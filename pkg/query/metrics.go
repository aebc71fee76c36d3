package query

import (
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics counts resolved queries by intent and outcome and times them.
type Metrics struct {
	registry *prometheus.Registry

	// queriesTotal counts resolved queries.
	// Labels: intent, outcome (text, chart, fallback, no_data, column_not_found, chart_invalid, error)
	queriesTotal *prometheus.CounterVec

	// resolveSeconds measures the time spent in Resolve.
	resolveSeconds prometheus.Histogram
}

// NewMetrics registers the query metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		queriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tabletalk",
			Subsystem: "query",
			Name:      "resolved_total",
			Help:      "Total resolved queries by intent and outcome",
		}, []string{"intent", "outcome"}),
		resolveSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tabletalk",
			Subsystem: "query",
			Name:      "resolve_seconds",
			Help:      "Time spent resolving a query",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) record(r Response, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.queriesTotal.WithLabelValues(r.Intent.String(), r.Outcome()).Inc()
	m.resolveSeconds.Observe(elapsed.Seconds())
}

// Sample is one labelled counter value.
type Sample struct {
	Intent  string  `json:"intent" yaml:"intent"`
	Outcome string  `json:"outcome" yaml:"outcome"`
	Count   float64 `json:"count" yaml:"count"`
}

// Samples returns the non-zero query counters, ordered by intent then
// outcome.
func (m *Metrics) Samples() ([]Sample, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}
	var out []Sample
	for _, mf := range families {
		if mf.GetName() != "tabletalk_query_resolved_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			s := Sample{Count: metric.GetCounter().GetValue()}
			for _, lp := range metric.GetLabel() {
				switch lp.GetName() {
				case "intent":
					s.Intent = lp.GetValue()
				case "outcome":
					s.Outcome = lp.GetValue()
				}
			}
			if s.Count > 0 {
				out = append(out, s)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Intent != out[j].Intent {
			return out[i].Intent < out[j].Intent
		}
		return out[i].Outcome < out[j].Outcome
	})
	return out, nil
}

// ResolveCount returns how many queries were timed.
func (m *Metrics) ResolveCount() (uint64, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return 0, err
	}
	for _, mf := range families {
		if mf.GetName() == "tabletalk_query_resolve_seconds" {
			return histogramCount(mf), nil
		}
	}
	return 0, nil
}

func histogramCount(mf *dto.MetricFamily) uint64 {
	var n uint64
	for _, metric := range mf.GetMetric() {
		n += metric.GetHistogram().GetSampleCount()
	}
	return n
}
