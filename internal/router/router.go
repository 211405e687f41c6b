package router

import (
	"github.com/gin-gonic/gin"

	"batchlens/internal/config"
	"batchlens/internal/handler"
	"batchlens/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	batchH *handler.BatchHandler,
	modelH *handler.ModelHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/healthz", healthH.Liveness)

	v1 := r.Group("/api/v1")

	batches := v1.Group("/batches")
	batches.POST("/analyze", batchH.Analyze)

	models := v1.Group("/models")
	models.GET("", modelH.List)
	models.GET("/:name", modelH.Get)

	return r
}
