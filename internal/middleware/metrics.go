package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simonbravin/bloqer/internal/platform/metrics"
)

// unmatchedRoute labels requests that hit no registered route, keeping the
// route label's cardinality bounded.
const unmatchedRoute = "unmatched"

// PrometheusMiddleware records request count and latency per route template.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method
		metrics.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
