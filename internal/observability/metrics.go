package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the climate
// pipeline.
type Metrics struct {
	UpstreamRequests   *prometheus.CounterVec   // labels: endpoint={archive,model}, outcome={success,error}
	UpstreamDuration   *prometheus.HistogramVec // labels: endpoint={archive,model}
	CacheLookups       *prometheus.CounterVec   // labels: result={hit,miss}
	YearsSkipped       prometheus.Counter
	SyntheticFallbacks prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climatetime",
			Name:      "upstream_requests_total",
			Help:      "Upstream Open-Meteo requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "climatetime",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climatetime",
			Name:      "cache_lookups_total",
			Help:      "Result-cache lookups by result.",
		}, []string{"result"}),
		YearsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climatetime",
			Name:      "years_skipped_total",
			Help:      "Requested years dropped because their fetch or parse failed.",
		}),
		SyntheticFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climatetime",
			Name:      "synthetic_fallbacks_total",
			Help:      "Projection calls answered with the synthetic fallback set.",
		}),
	}

	prometheus.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.CacheLookups,
		m.YearsSkipped,
		m.SyntheticFallbacks,
	)

	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry
// so parallel tests do not trip "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		UpstreamRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climatetime", Name: "upstream_requests_total"}, []string{"endpoint", "outcome"}),
		UpstreamDuration:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "climatetime", Name: "upstream_request_duration_seconds"}, []string{"endpoint"}),
		CacheLookups:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climatetime", Name: "cache_lookups_total"}, []string{"result"}),
		YearsSkipped:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climatetime", Name: "years_skipped_total"}),
		SyntheticFallbacks: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climatetime", Name: "synthetic_fallbacks_total"}),
	}
}
