// Package metrics exposes Prometheus instrumentation for the collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "hhscout"
	subsystem = "collector"
)

// Retry reasons used as the "reason" label on FetchRetries.
const (
	ReasonRateLimited = "rate_limited"
	ReasonNetwork     = "network"
)

// Metrics holds all collector Prometheus metrics.
type Metrics struct {
	RunsStarted        prometheus.Counter
	RunsFinished       *prometheus.CounterVec
	PagesFetched       prometheus.Counter
	FetchRetries       *prometheus.CounterVec
	IntervalsAbandoned prometheus.Counter
	VacanciesCollected prometheus.Counter
	RunDuration        prometheus.Histogram
}

// New registers all collector metrics with reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_started_total",
			Help:      "Collection runs started",
		}),
		RunsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_finished_total",
			Help:      "Collection runs finished, by terminal state",
		}, []string{"outcome"}),
		PagesFetched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pages_fetched_total",
			Help:      "Provider pages fetched successfully",
		}),
		FetchRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "fetch_retries_total",
			Help:      "Page fetches retried, by reason",
		}, []string{"reason"}),
		IntervalsAbandoned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "intervals_abandoned_total",
			Help:      "Intervals abandoned before their last page",
		}),
		VacanciesCollected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "vacancies_collected_total",
			Help:      "Vacancies accumulated across all runs",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of a collection run",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
	}
}
