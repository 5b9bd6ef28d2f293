package routes

import (
	"calsnap/internal/controllers"
	"calsnap/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterPhotoRoutes(router *gin.Engine, photoController *controllers.PhotoController, jwtSecret string, maxBodyBytes int64) {
	photoRoutes := router.Group("/api/photos")
	photoRoutes.Use(middleware.BodyLimit(maxBodyBytes), middleware.AuthMiddleware(jwtSecret))
	{
		photoRoutes.POST("", photoController.UploadPhoto)
	}
}
