package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiaoxiao0301/artist-atlas/internal/domain"
	apperrors "github.com/xiaoxiao0301/artist-atlas/pkg/errors"
	"github.com/xiaoxiao0301/artist-atlas/pkg/httputil"
	"github.com/xiaoxiao0301/artist-atlas/pkg/jwt"
	"github.com/xiaoxiao0301/artist-atlas/pkg/logger"
)

// Gin context keys populated by Auth.
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
)

// Auth validates the Bearer access token and stores the caller's identity
// in the gin context.
func Auth(tokens *jwt.Manager, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httputil.ErrorResponse(c, apperrors.ErrUnauthorized.WithMessage("Missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.ErrorResponse(c, apperrors.ErrUnauthorized.WithMessage("Invalid authorization header format"))
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			log.Warn("token validation failed",
				logger.String("request_id", GetRequestID(c)),
				logger.Err(err),
			)
			httputil.ErrorResponse(c, apperrors.ErrTokenInvalid)
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role.
// Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(UserRoleKey) != string(domain.RoleAdmin) {
			httputil.ErrorResponse(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
