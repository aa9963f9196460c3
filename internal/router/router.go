package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"babinium/internal/handler"
	"babinium/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	logger *slog.Logger,
	corsOrigins []string,
	extractionH *handler.ExtractionHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(corsOrigins))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	v1.POST("/extractions", extractionH.Extract)

	exports := v1.Group("/exports")
	exports.POST("/csv", exportH.ExportCSV)
	exports.POST("/xlsx", exportH.ExportXLSX)

	return r
}
