package routes

import (
	"github.com/01moynul/dbversion-api/internal/config"
	"github.com/01moynul/dbversion-api/internal/handlers"
	"github.com/01moynul/dbversion-api/internal/metrics"
	"github.com/01moynul/dbversion-api/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SetupRouter builds the engine once at startup. It holds no per-request
// state, so a single instance serves every request.
func SetupRouter(h *handlers.Handlers, cfg *config.Config, m *metrics.Metrics, log zerolog.Logger) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestLogger(log),
		m.Middleware(),
		middleware.CORS(cfg.CORSAllowedOrigin),
		gin.Recovery(),
	)

	router.GET("/", h.Index)
	router.GET("/db_version", h.GetDBVersion)

	router.GET(cfg.MetricsPath, gin.WrapH(m.Handler()))

	return router
}
