package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "travel_safety"

// Metrics holds the Prometheus collectors for ranking and location tracking.
type Metrics struct {
	Rankings          *prometheus.CounterVec // labels: source={api,refresh,report,cli}
	RankingDuration   prometheus.Histogram
	LocationUpdates   *prometheus.CounterVec // labels: source={static,reported}
	LocationErrors    prometheus.Counter
	StreamSubscribers prometheus.Gauge
	CatalogHazards    prometheus.Gauge
}

// NewMetrics creates all collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Rankings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rankings_total",
			Help:      "Proximity rankings computed, by trigger.",
		}, []string{"source"}),
		RankingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ranking_duration_seconds",
			Help:      "Time spent ranking the hazard catalog.",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		LocationUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_updates_total",
			Help:      "Accepted location fixes, by provider.",
		}, []string{"source"}),
		LocationErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_errors_total",
			Help:      "Failed location lookups.",
		}),
		StreamSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_subscribers",
			Help:      "Open ranked-view stream connections.",
		}),
		CatalogHazards: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_hazards",
			Help:      "Local hazards loaded into the catalog.",
		}),
	}
}

// NewMetricsForTesting registers against a private registry so tests can
// build as many instances as they like.
func NewMetricsForTesting() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

// ObserveRanking records one ranking pass that started at start.
func (m *Metrics) ObserveRanking(source string, start time.Time) {
	m.Rankings.WithLabelValues(source).Inc()
	m.RankingDuration.Observe(time.Since(start).Seconds())
}
