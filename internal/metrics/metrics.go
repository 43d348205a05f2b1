package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_catalog_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recipe_catalog_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	authEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_catalog_auth_events_total",
		Help: "Login, logout and registration attempts by result",
	}, []string{"event", "result"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "recipe_catalog_active_sessions",
		Help: "Sessions issued and not yet logged out by this instance",
	})

	catalogEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_catalog_events_published_total",
		Help: "Catalog events handed to the broker by type and result",
	}, []string{"type", "result"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_catalog_cache_lookups_total",
		Help: "Response cache lookups by result",
	}, []string{"result"})

	rateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_catalog_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"route"})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ObserveAuth counts an authentication event such as ("login", "success").
func ObserveAuth(event, result string) {
	authEvents.WithLabelValues(event, result).Inc()
}

func SessionOpened() { activeSessions.Inc() }

func SessionClosed() { activeSessions.Dec() }

// ObserveEvent counts a catalog event publish attempt.
func ObserveEvent(eventType, result string) {
	catalogEvents.WithLabelValues(eventType, result).Inc()
}

// ObserveCache counts a cache "hit", "miss" or "store".
func ObserveCache(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}

// ObserveRateLimited counts a request rejected with 429.
func ObserveRateLimited(route string) {
	rateLimited.WithLabelValues(route).Inc()
}
