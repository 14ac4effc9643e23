package middleware

import (
	"strconv"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/observability/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request latency labelled by the matched route template.
func MetricsMiddleware(m *metrics.LedgerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
