package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"social-service/internal/observability"
)

// unmatchedRoute labels requests that hit NoRoute so raw paths never become label values.
const unmatchedRoute = "unmatched"

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		observability.RecordHTTPRequest(
			c.Request.Method,
			route,
			c.Writer.Status(),
			time.Since(start),
		)
	}
}
