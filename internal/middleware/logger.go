package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"escaperoom/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const headerRequestID = "X-Request-ID"

// RequestID propagates X-Request-ID, generating one when the client sent none.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(headerRequestID, id)
		c.Next()
	}
}

// RequestLogger logs one line per request and recovers from panics.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				event(log.Error(), c, start).
					Err(err).
					Bytes("stack", debug.Stack()).
					Msg("panic")

				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
				c.Abort()
				return
			}

			status := c.Writer.Status()
			e := log.Info()
			switch {
			case status >= http.StatusInternalServerError:
				e = log.Error()
			case status >= http.StatusBadRequest:
				e = log.Warn()
			}
			for _, ginErr := range c.Errors {
				e = e.AnErr("error", ginErr.Err)
			}
			event(e, c, start).Msg("request")
		}()

		c.Next()
	}
}

func event(e *zerolog.Event, c *gin.Context, start time.Time) *zerolog.Event {
	return e.
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("query", c.Request.URL.RawQuery).
		Int("status", c.Writer.Status()).
		Dur("latency", time.Since(start)).
		Str("client_ip", c.ClientIP()).
		Int64("user_id", c.GetInt64(ctxUserID)).
		Str("role", c.GetString(ctxRole)).
		Str("request_id", c.GetString("request_id"))
}
