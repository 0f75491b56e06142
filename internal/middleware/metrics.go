package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shule-labs/school-admin-api/internal/service"
)

// Metrics records method, route, status and latency for every request. The
// matched route pattern is preferred over the raw path to keep label
// cardinality bounded.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
