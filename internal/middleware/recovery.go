package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiaoxiao0301/artist-atlas/pkg/errors"
	"github.com/xiaoxiao0301/artist-atlas/pkg/httputil"
	"github.com/xiaoxiao0301/artist-atlas/pkg/logger"
)

// Recovery converts panics into 500 responses without leaking internals.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic recovered",
					logger.String("request_id", GetRequestID(c)),
					logger.String("method", c.Request.Method),
					logger.String("path", c.Request.URL.Path),
					logger.String("ip", c.ClientIP()),
					logger.String("panic", fmt.Sprintf("%v", err)),
					logger.String("stack", string(debug.Stack())),
				)

				httputil.ErrorResponse(c, apperrors.ErrInternal)
				c.Abort()
			}
		}()

		c.Next()
	}
}
