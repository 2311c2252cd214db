package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rentmgr/backend/internal/interfaces/http/dto"
)

// SwaggerConfig holds configuration for Swagger endpoint protection
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool
}

// SwaggerProtection guards the documentation routes. Disabled docs answer
// 404. With RequireAuth the caller needs a valid bearer token, checked with
// validator, even though the global JWT middleware skips /swagger.
func SwaggerProtection(cfg SwaggerConfig, validator TokenValidator, logger *zap.Logger) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeNotFound, "API documentation is not available", GetRequestID(c)))
		}
	}
	if !cfg.RequireAuth || validator == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		Validator: validator,
		Logger:    logger,
	})
}
