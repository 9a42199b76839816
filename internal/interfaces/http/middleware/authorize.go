package middleware

import (
	"net/http"

	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireOperation rejects callers whose role is not permitted to invoke op.
// Services repeat the check, so a route registered without this middleware
// is still guarded; the middleware only rejects earlier.
func RequireOperation(op access.Operation) gin.HandlerFunc {
	return RequireOperationWithLogger(op, nil)
}

// RequireOperationWithLogger is RequireOperation with denial logging
func RequireOperationWithLogger(op access.Operation, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", c.GetString(RequestIDContextKey)))
			return
		}

		if err := access.Authorize(p, op); err != nil {
			if logger != nil {
				logger.Debug("Operation denied",
					zap.String("operation", string(op)),
					zap.String("user_id", p.ID.String()),
					zap.String("role", string(p.Role)))
			}
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, err.Error(), c.GetString(RequestIDContextKey)))
			return
		}

		c.Next()
	}
}
