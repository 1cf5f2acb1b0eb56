package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger writes one structured line per request.
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.String("request_id", GetRequestID(c)),
			zap.String("client_ip", c.ClientIP()),
		}
		if userID, ok := c.Get(UserIDKey); ok {
			fields = append(fields, zap.Any("user_id", userID))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("http", fields...)
			return
		}
		log.Info("http", fields...)
	}
}

// Recovery turns a panic into a 500 and logs it.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("error", r),
					zap.String("request_id", GetRequestID(c)),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}
