package middleware

import (
	"time"

	"github.com/NDQnhat/realestatepro-api/pkg/logger"
	"github.com/NDQnhat/realestatepro-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	RequestIDHeader  = "X-Request-ID"
	ContextRequestID = "requestId"
)

// quietPaths are polled by load balancers and only logged at debug level.
var quietPaths = map[string]bool{"/health": true}

// LoggingMiddleware tags each request with an id (reusing a well formed
// inbound X-Request-ID) and logs one line once the handler chain is done.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader(RequestIDHeader)
		if !utils.IsUUID(requestID) {
			requestID = utils.GenerateID()
		}
		c.Set(ContextRequestID, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		event := levelFor(status, quietPaths[path])
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			event = event.Str("error", errs.Last().Error())
		}

		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("user_id", c.GetString(ContextUserID)).
			Str("role", c.GetString(ContextRole)).
			Int("body_size", c.Writer.Size()).
			Msg("request")
	}
}

func levelFor(status int, quiet bool) *zerolog.Event {
	switch {
	case status >= 500:
		return logger.Log.Error()
	case status >= 400:
		return logger.Log.Warn()
	case quiet:
		return logger.Log.Debug()
	default:
		return logger.Log.Info()
	}
}
