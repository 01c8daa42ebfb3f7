package middleware

import (
	"strings"

	"studyfunnel_backend/internal/auth"
	"studyfunnel_backend/internal/logger"
	"studyfunnel_backend/pkg/apperrors"
	"studyfunnel_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid HS256 bearer token and stores the caller
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		caller, err := auth.ParseToken(secret, strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "rejected bearer token", "error", err.Error(), "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.NewInvalidTokenError())
			return
		}

		c.Set(string(contextkeys.CallerContextKey), caller)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), caller.Subject))
		c.Next()
	}
}

// GetCaller returns the caller stored by AuthMiddleware
func GetCaller(c *gin.Context) (*auth.Caller, bool) {
	v, ok := c.Get(string(contextkeys.CallerContextKey))
	if !ok {
		return nil, false
	}
	caller, ok := v.(*auth.Caller)
	return caller, ok && caller != nil
}
