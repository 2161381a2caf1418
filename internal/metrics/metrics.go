// Package metrics exposes Prometheus instruments for dictionary activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wordbridge"

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	contributions *prometheus.CounterVec
	rankUps       prometheus.Counter
	searches      prometheus.Counter
	searchResults prometheus.Histogram
	writeFailures *prometheus.CounterVec
}

// New registers the collectors on registry.
func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		contributions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contributions_total",
			Help:      "Contributions appended to the ledger, by type",
		}, []string{"type"}),
		rankUps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rank_ups_total",
			Help:      "Times a contributor moved up a rank",
		}),
		searches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Searches served",
		}),
		searchResults: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of words returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		writeFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_failures_total",
			Help:      "Write operations that were rejected or rolled back, by operation",
		}, []string{"operation"}),
	}
}

func (m *Metrics) ContributionRecorded(contributionType string) {
	if m == nil {
		return
	}
	m.contributions.WithLabelValues(contributionType).Inc()
}

func (m *Metrics) RankUp() {
	if m == nil {
		return
	}
	m.rankUps.Inc()
}

func (m *Metrics) SearchServed(results int) {
	if m == nil {
		return
	}
	m.searches.Inc()
	m.searchResults.Observe(float64(results))
}

func (m *Metrics) WriteFailed(operation string) {
	if m == nil {
		return
	}
	m.writeFailures.WithLabelValues(operation).Inc()
}
