package rest

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sinawise/sinawise-server/internal/logger"
	"github.com/sinawise/sinawise-server/internal/metrics"
)

// requestLogger attaches a named request logger to the request context and
// writes one structured line per served request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := logger.WithName(c.Request.Context(), "http")
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		logger.InfoKV(ctx, "Request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// requestMetrics records Prometheus counters and latencies per route.
// Unmatched paths are collapsed to avoid unbounded label cardinality.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Inc()
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}
