package routes

import (
	"calsnap/internal/controllers"
	"calsnap/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterMealRoutes(router *gin.Engine, mealController *controllers.MealController, jwtSecret string) {
	mealRoutes := router.Group("/api/meals")
	mealRoutes.Use(middleware.AuthMiddleware(jwtSecret))
	{
		mealRoutes.GET("", mealController.ListMeals)
		mealRoutes.POST("", mealController.CreateMeal)
		mealRoutes.PATCH("/:id", mealController.UpdateMeal)
		mealRoutes.DELETE("/:id", mealController.DeleteMeal)
	}
}
