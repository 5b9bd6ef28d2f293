package routes

import (
	"calsnap/internal/controllers"
	"calsnap/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterProfileRoutes(router *gin.Engine, profileController *controllers.ProfileController, jwtSecret string) {
	profileRoutes := router.Group("/api/profile")
	profileRoutes.Use(middleware.AuthMiddleware(jwtSecret))
	{
		profileRoutes.GET("", profileController.GetProfile)
		profileRoutes.PATCH("", profileController.PatchProfile)
	}
}
