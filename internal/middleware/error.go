package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "github.com/NDQnhat/realestatepro-api/pkg/errors"
	"github.com/NDQnhat/realestatepro-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ErrorHandlerMiddleware renders the last error attached with c.Error and
// recovers panics. Only AppError messages reach the client.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(debug.Stack())).
					Str("path", c.Request.URL.Path).
					Msg("Panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError, apperrors.ErrInternalServer)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		if appErr, ok := apperrors.As(err); ok {
			c.JSON(appErr.Code, appErr)
			return
		}

		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled request error")
		c.JSON(http.StatusInternalServerError, apperrors.ErrInternalServer)
	}
}
