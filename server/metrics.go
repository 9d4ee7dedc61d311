package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialfeed_http_requests_total",
		Help: "The total number of HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialfeed_http_request_duration_seconds",
		Help:    "Latency of HTTP requests",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // Start at 1ms, double each bucket
	}, []string{"method", "route"})
)

func observeRequest(method string, route string, status int, latency time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(method, route).Observe(latency.Seconds())
}
