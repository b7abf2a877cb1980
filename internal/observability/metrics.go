package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the gateway.
type Metrics struct {
	// Upstream feed metrics.
	FeedRequests *prometheus.CounterVec   // labels: feed, outcome={success,error}
	FeedDuration *prometheus.HistogramVec // labels: feed
	FeedCache    *prometheus.CounterVec   // labels: feed, result={hit,miss}

	// Traffic relevance filter metrics.
	AlertsSeen    prometheus.Counter
	AlertsKept    prometheus.Counter
	RoadIndexSize prometheus.Gauge

	// Assistant metrics.
	ChatIntents *prometheus.CounterVec // label: kind
}

// NewMetrics creates and registers all gateway metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "citymonitor",
			Name:      "feed_requests_total",
			Help:      "Upstream feed fetches by feed and outcome.",
		}, []string{"feed", "outcome"}),
		FeedDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "citymonitor",
			Name:      "feed_request_duration_seconds",
			Help:      "Upstream feed fetch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"feed"}),
		FeedCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "citymonitor",
			Name:      "feed_cache_total",
			Help:      "Feed snapshot cache lookups by feed and result.",
		}, []string{"feed", "result"}),
		AlertsSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "citymonitor",
			Name:      "traffic_alerts_seen_total",
			Help:      "Traffic alerts received from the upstream feed.",
		}),
		AlertsKept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "citymonitor",
			Name:      "traffic_alerts_kept_total",
			Help:      "Traffic alerts kept by the road relevance filter.",
		}),
		RoadIndexSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "citymonitor",
			Name:      "road_index_size",
			Help:      "Number of roads in the relevance index.",
		}),
		ChatIntents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "citymonitor",
			Name:      "chat_intents_total",
			Help:      "Classified chat intents by kind.",
		}, []string{"kind"}),
	}

	prometheus.MustRegister(
		m.FeedRequests,
		m.FeedDuration,
		m.FeedCache,
		m.AlertsSeen,
		m.AlertsKept,
		m.RoadIndexSize,
		m.ChatIntents,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FeedRequests:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "citymonitor", Name: "feed_requests_total"}, []string{"feed", "outcome"}),
		FeedDuration:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "citymonitor", Name: "feed_request_duration_seconds"}, []string{"feed"}),
		FeedCache:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "citymonitor", Name: "feed_cache_total"}, []string{"feed", "result"}),
		AlertsSeen:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "citymonitor", Name: "traffic_alerts_seen_total"}),
		AlertsKept:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "citymonitor", Name: "traffic_alerts_kept_total"}),
		RoadIndexSize: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "citymonitor", Name: "road_index_size"}),
		ChatIntents:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "citymonitor", Name: "chat_intents_total"}, []string{"kind"}),
	}
}
