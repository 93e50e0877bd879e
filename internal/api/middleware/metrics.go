package middleware

import (
	"time"

	"fitbattle-service/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records every request under its route template, so /battles/1 and
// /battles/2 share one series.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
