package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/ecosnap/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *slog.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.POST("/score", handler.ScoreProduct)
		v1.GET("/products/:barcode/score", handler.ScoreBarcode)

		scans := v1.Group("/scans")
		{
			scans.POST("/image", handler.ScanImage)
			scans.GET("/:id", handler.GetScan)
		}

		users := v1.Group("/users/:userID")
		{
			users.GET("/scans", handler.ListUserScans)
			users.GET("/stats", handler.UserStats)
		}
	}

	return router
}
