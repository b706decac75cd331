package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiaoxiao0301/artist-atlas/pkg/logger"
)

// Logging logs every HTTP request with method, path, status and latency.
func Logging(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		fields := []logger.Field{
			logger.String("request_id", GetRequestID(c)),
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.String("query", query),
			logger.Int("status", statusCode),
			logger.String("ip", c.ClientIP()),
			logger.Int64("latency_ms", latency.Milliseconds()),
		}
		if userID := c.GetString(UserIDKey); userID != "" {
			fields = append(fields, logger.String("user_id", userID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logger.String("error", c.Errors.String()))
		}

		switch {
		case statusCode >= 500:
			log.Error("HTTP request failed with server error", fields...)
		case statusCode >= 400:
			log.Warn("HTTP request failed with client error", fields...)
		default:
			log.Info("HTTP request completed", fields...)
		}
	}
}
