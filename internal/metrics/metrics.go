// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the moderation pipeline.
package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests by route and status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clipmod_http_requests_total",
		Help: "HTTP requests handled, by method, route and status code.",
	}, []string{"method", "route", "status"})

	// ModerationDecisions counts pipeline outcomes.
	ModerationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clipmod_moderation_decisions_total",
		Help: "Moderation pipeline outcomes (blocked, clean, pending).",
	}, []string{"result"})

	// ClipRequests counts clip creation outcomes.
	ClipRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clipmod_clip_requests_total",
		Help: "Clip creation requests by outcome (created, rejected, failed).",
	}, []string{"outcome"})
)

// Middleware records per-request counters. Uses the matched route template
// so path parameters don't explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestsTotal.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
