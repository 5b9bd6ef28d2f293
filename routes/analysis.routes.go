package routes

import (
	"calsnap/internal/controllers"
	"calsnap/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAnalysisRoutes mounts the public proxy endpoints. Inline images are
// large, so the body cap applies to this group only.
func RegisterAnalysisRoutes(router *gin.Engine, analyzeController *controllers.AnalyzeFoodController, healthController *controllers.HealthController, maxBodyBytes int64) {
	router.GET("/health", healthController.Health)

	api := router.Group("/api")
	api.Use(middleware.BodyLimit(maxBodyBytes))
	{
		api.POST("/analyze-food", analyzeController.AnalyzeFood)
	}
}
