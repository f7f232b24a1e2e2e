package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrdesk/backend/internal/audit"
)

// Audit wraps every request in an HTTP_REQUEST / HTTP_RESPONSE pair under
// the request's correlation id. The response entry is written from a
// deferred call, so a panicking handler is still recorded with status 500
// before the panic continues to the recovery middleware.
func Audit(auditor *audit.Auditor) gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := CorrelationID(c)
		actor := ActorID(c)
		ctx := c.Request.Context()

		auditor.Log(ctx, audit.ActionHTTPRequest, actor, correlationID, map[string]any{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"query":  c.Request.URL.RawQuery,
		})

		defer func() {
			status := c.Writer.Status()
			rec := recover()
			if rec != nil {
				status = http.StatusInternalServerError
			}
			auditor.Log(ctx, audit.ActionHTTPResponse, actor, correlationID, map[string]any{
				"status": status,
			})
			if rec != nil {
				panic(rec)
			}
		}()

		c.Next()
	}
}
