package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CorrelationIDHeader = "X-Correlation-ID"
	RequestIDHeader     = "X-Request-Id"

	correlationKey = "correlation_id"
	maxIDLength    = 128
)

// Correlation assigns every request a correlation id, taken from the inbound
// headers when present and generated otherwise, and echoes it back.
func Correlation() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := inboundID(c)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(correlationKey, id)
		c.Writer.Header().Set(CorrelationIDHeader, id)
		c.Next()
	}
}

// CorrelationID returns the id assigned by Correlation. Handlers mounted
// without the middleware get a fresh id, stored so later calls agree.
func CorrelationID(c *gin.Context) string {
	if v, ok := c.Get(correlationKey); ok {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}
	id := uuid.NewString()
	c.Set(correlationKey, id)
	c.Writer.Header().Set(CorrelationIDHeader, id)
	return id
}

func inboundID(c *gin.Context) string {
	for _, h := range []string{CorrelationIDHeader, RequestIDHeader} {
		if v := strings.TrimSpace(c.GetHeader(h)); v != "" && len(v) <= maxIDLength {
			return v
		}
	}
	return ""
}
