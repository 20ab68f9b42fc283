package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"docintake/internal/shared/server/respond"
	"docintake/internal/shared/telemetry"
)

// Recovery turns a panic in a handler into a 500 with the standard error body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			}
			if documentID, ok := c.Get("documentId"); ok {
				fields["document_id"] = documentID
			}
			telemetry.Error("panic", fields)
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
