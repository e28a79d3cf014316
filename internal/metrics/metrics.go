package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txcompare_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "txcompare_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	// QueryDuration is the time spent answering one listing request (page and
	// count together), per backend and active filter combination.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "txcompare_query_duration_seconds",
			Help:    "Transaction listing latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"backend", "filter"},
	)
	// QueryErrorsTotal counts failed listing requests.
	QueryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txcompare_query_errors_total",
			Help: "Total number of failed transaction listings",
		},
		[]string{"backend", "filter"},
	)
	// RateLimitedTotal counts requests rejected by the rate limiter.
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "txcompare_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

// QueryObserver records listing timings.
type QueryObserver struct{}

// ObserveQuery records one listing request.
func (QueryObserver) ObserveQuery(backend, filter string, elapsed time.Duration, err error) {
	if err != nil {
		QueryErrorsTotal.WithLabelValues(backend, filter).Inc()
		return
	}
	QueryDuration.WithLabelValues(backend, filter).Observe(elapsed.Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
