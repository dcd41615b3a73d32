// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation for HTTP traffic. Labels are
// restricted to method, registered route, and status so that cardinality
// stays bounded no matter what clients put in URLs:
//
//   - method: HTTP verb (GET/POST/...)
//   - path:   the registered Gin route template, e.g.
//     /api/messages/history/:history_id, never the raw URL
//   - status: numeric status code as a string ("200", "404")
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// responseSizeBuckets span the payloads this API produces, from small JSON
// error envelopes up to full message-history listings.
var responseSizeBuckets = []float64{
	200, 500, 1 << 10, 2 << 10, 5 << 10,
	10 << 10, 25 << 10, 50 << 10,
	100 << 10, 250 << 10, 500 << 10,
	1 << 20, 2 << 20, 5 << 20,
}

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// Latency omits the status label; per-status histograms multiply series
	// without changing what the dashboards need.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	httpRespSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "Size of HTTP responses in bytes.",
			Buckets: responseSizeBuckets,
		},
		[]string{"method", "path"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, httpRespSize)
}

// routeLabel returns the registered route template for the request, falling
// back to the raw path only when no route matched (404/405 fallbacks).
func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

// Metrics returns a Gin middleware that records Prometheus series for every
// request: http_requests_total, http_request_duration_seconds,
// http_requests_inflight, and http_response_size_bytes.
//
// Wire it ahead of the routes and expose the scrape endpoint separately:
//
//	r.Use(middleware.Metrics())
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		path := routeLabel(c)
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpReqs.WithLabelValues(method, path, status).Inc()
		httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		// Writer.Size() is -1 when nothing was written (hijacked connections).
		if size := c.Writer.Size(); size >= 0 {
			httpRespSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}
