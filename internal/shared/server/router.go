package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docintake/internal/documents"
	"docintake/internal/emails"
	"docintake/internal/services/health"
	"docintake/internal/shared/config"
	"docintake/internal/shared/metrics"
	"docintake/internal/shared/server/middleware"
	"docintake/internal/shared/server/respond"
)

// RouterDeps groups the handlers mounted by NewRouter.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	DocumentHandler *documents.Handler
	EmailHandler    *emails.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = 16 << 20

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	r.GET("/health", func(c *gin.Context) {
		payload, ok := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, payload)
	})
	r.GET("/metrics", metrics.Handler())

	root := r.Group("/")
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(root)
	}
	if deps.EmailHandler != nil {
		deps.EmailHandler.RegisterRoutes(root)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
