package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teaching-load-api/internal/service"
)

// Metrics records request duration and status per route template. Requests matching no
// route share the "unmatched" label.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
