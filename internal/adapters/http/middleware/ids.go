package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/marketing-site/internal/platform/logging"
)

// ID headers and their gin context keys.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"

	ContextKeyRequestID     = "request_id"
	ContextKeyCorrelationID = "correlation_id"
)

// maxIDLength bounds IDs accepted from clients.
const maxIDLength = 128

type idConfig struct {
	header string
	key    string
	enrich []func(ctx context.Context, id string) context.Context
}

// RequestID takes the X-Request-ID header or generates a UUID, echoes it
// in the response and attaches it to the request context and its logger.
func RequestID() gin.HandlerFunc {
	return idMiddleware(idConfig{
		header: HeaderRequestID,
		key:    ContextKeyRequestID,
		enrich: []func(context.Context, string) context.Context{ContextWithRequestID, logging.WithRequestID},
	})
}

// CorrelationID does the same for X-Correlation-ID, which spans every
// request of one business transaction.
func CorrelationID() gin.HandlerFunc {
	return idMiddleware(idConfig{
		header: HeaderCorrelationID,
		key:    ContextKeyCorrelationID,
		enrich: []func(context.Context, string) context.Context{ContextWithCorrelationID, logging.WithCorrelationID},
	})
}

func idMiddleware(cfg idConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(cfg.header)
		if id == "" || len(id) > maxIDLength {
			id = uuid.NewString()
		}

		c.Set(cfg.key, id)
		c.Header(cfg.header, id)

		ctx := c.Request.Context()
		for _, enrich := range cfg.enrich {
			ctx = enrich(ctx, id)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID set by CorrelationID, or "".
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}
