package observability

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/tandem/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tandem"

// Metrics holds the collectors fed by the coordinator hooks.
type Metrics struct {
	Events          *prometheus.CounterVec
	Fetches         *prometheus.CounterVec
	FetchDuration   *prometheus.HistogramVec
	Combinations    *prometheus.CounterVec
	CombineDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Events processed by the coordinator loop.",
		}, []string{"kind", "applied"}),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Completed page fetches by list, mode and outcome (ok, error, stale).",
		}, []string{"region", "mode", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of page fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"region"}),
		Combinations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "combinations_total",
			Help:      "Completed combinations by outcome.",
		}, []string{"outcome"}),
		CombineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "combine_duration_seconds",
			Help:      "Duration of combinations.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Events, m.Fetches, m.FetchDuration, m.Combinations, m.CombineDuration)
	}
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvent: func(_ context.Context, e *domain.DispatchEvent) {
			m.Events.WithLabelValues(string(e.Kind), strconv.FormatBool(e.Applied)).Inc()
		},
		OnFetch: func(_ context.Context, e *domain.FetchEvent) {
			m.Fetches.WithLabelValues(string(e.Region), string(e.Mode), e.Outcome()).Inc()
			m.FetchDuration.WithLabelValues(string(e.Region)).Observe(e.Duration.Seconds())
		},
		OnCombine: func(_ context.Context, e *domain.CombineEvent) {
			outcome := "ok"
			if e.Err != nil {
				outcome = "error"
			}
			m.Combinations.WithLabelValues(outcome).Inc()
			m.CombineDuration.Observe(e.Duration.Seconds())
		},
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
