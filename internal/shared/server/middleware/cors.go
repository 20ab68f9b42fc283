package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CORS allows a single origin with any method and header, with credentials.
// Preflight requests are answered here and never reach the routes.
func CORS(allowedOrigin string) gin.HandlerFunc {
	opts := cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           600,
	}
	if trimmed := strings.TrimSpace(allowedOrigin); trimmed != "" {
		opts.AllowedOrigins = []string{trimmed}
	} else {
		// An empty list means "allow all" to rs/cors.
		opts.AllowOriginFunc = func(string) bool { return false }
	}
	c := cors.New(opts)

	return func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)
		if ctx.Request.Method == http.MethodOptions && ctx.GetHeader("Access-Control-Request-Method") != "" {
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
