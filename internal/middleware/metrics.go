package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"scar_tracker/internal/metrics"
)

// Metrics records request counts and latency per method/route/status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()

		method := c.Request.Method
		// FullPath keeps the route pattern (":id" not the raw value) so label
		// cardinality stays bounded.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration)
	}
}
