package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "friendlocator",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "friendlocator",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "route"})

	// Outcome is one of "ok", "error", "no_route".
	DirectionsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "friendlocator",
		Subsystem: "directions",
		Name:      "requests_total",
		Help:      "Upstream directions API requests by outcome",
	}, []string{"outcome"})

	DirectionsCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "friendlocator",
		Subsystem: "directions",
		Name:      "cache_hits_total",
		Help:      "Directions responses served from cache",
	})

	DirectionsCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "friendlocator",
		Subsystem: "directions",
		Name:      "cache_misses_total",
		Help:      "Directions lookups not found in cache",
	})

	PathPoints = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "friendlocator",
		Subsystem: "directions",
		Name:      "path_points",
		Help:      "Number of decoded points per extracted path",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	RoutesPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "friendlocator",
		Subsystem: "tracker",
		Name:      "routes_published_total",
		Help:      "Routes recomputed and published after location updates",
	})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
