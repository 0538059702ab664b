package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "staysync", Name: "http_requests_total", Help: "Snapshot server requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "staysync", Name: "http_request_duration_seconds",
			Help:    "Snapshot server request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "staysync", Name: "api_requests_total", Help: "Outbound booking-API requests."},
		[]string{"method", "endpoint", "status"},
	)
	APILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "staysync", Name: "api_request_duration_seconds",
			Help:    "Outbound booking-API request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "staysync", Name: "cache_events_total", Help: "KV cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	StoreFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "staysync", Name: "store_fetches_total", Help: "Store fetch outcomes."},
		[]string{"store", "outcome"}, // outcome: ok|error|skipped|stale
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, APIRequests, APILatency, CacheEvents, StoreFetches)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveAPI(method, endpoint string, status int, dur time.Duration) {
	APIRequests.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APILatency.WithLabelValues(method, endpoint).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveStoreFetch(store, outcome string) {
	StoreFetches.WithLabelValues(store, outcome).Inc()
}
