package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/univ-portal-api/internal/service"
)

// unmatchedRoute labels requests that hit no registered route, keeping raw paths
// out of the label set.
const unmatchedRoute = "unmatched"

// Metrics records latency and status per route template.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
