package controllers

import (
	"calsnap/internal/middleware"
	"calsnap/internal/models"
	"calsnap/internal/repository"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MealController struct {
	repo repository.MealRepository
	now  func() time.Time
}

func NewMealController(repo repository.MealRepository) *MealController {
	return &MealController{repo: repo, now: time.Now}
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"status":  "error",
		"message": "Unauthorized",
		"error":   "User ID not found in token",
	})
}

// ListMeals godoc
// @Summary List meals in a time window
// @Description Meals of the authenticated user with from <= logged_at < to, newest first
// @Tags meals
// @Produce json
// @Security BearerAuth
// @Param from query string true "Window start (RFC3339)"
// @Param to query string true "Window end, exclusive (RFC3339)"
// @Success 200 {object} map[string]interface{} "Meals retrieved successfully"
// @Failure 400 {object} map[string]interface{} "Invalid time window"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Failed to retrieve meals"
// @Router /api/meals [get]
func (mc *MealController) ListMeals(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	from, errFrom := time.Parse(time.RFC3339, c.Query("from"))
	to, errTo := time.Parse(time.RFC3339, c.Query("to"))
	if errFrom != nil || errTo != nil || !from.Before(to) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid time window",
			"error":   "from and to must be RFC3339 timestamps with from before to",
		})
		return
	}

	meals, err := mc.repo.FindByUserIDAndLoggedAtRange(userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve meals",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Meals retrieved successfully",
		"data":    meals,
	})
}

// CreateMeal godoc
// @Summary Log a meal
// @Description Persist a meal for the authenticated user; logged_at defaults to now
// @Tags meals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param meal body models.MealDraft true "Meal data"
// @Success 201 {object} map[string]interface{} "Meal created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Failed to create meal"
// @Router /api/meals [post]
func (mc *MealController) CreateMeal(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	var draft models.MealDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}
	if err := draft.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	meal := draft.ToMeal(userID, mc.now())
	if err := mc.repo.Create(&meal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to create meal",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Meal created successfully",
		"data":    meal,
	})
}

// UpdateMeal godoc
// @Summary Update a meal
// @Description Patch fields of a meal owned by the authenticated user
// @Tags meals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meal ID"
// @Param meal body models.MealPatch true "Fields to change"
// @Success 200 {object} map[string]interface{} "Meal updated successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Meal not found"
// @Failure 500 {object} map[string]interface{} "Failed to update meal"
// @Router /api/meals/{id} [patch]
func (mc *MealController) UpdateMeal(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	id := c.Param("id")
	if uuid.Validate(id) != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid meal ID",
			"error":   "ID must be a UUID",
		})
		return
	}

	var patch models.MealPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}
	if err := patch.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	meal, err := mc.repo.Patch(id, userID, patch.Columns())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Meal not found",
				"error":   "No meal exists with the provided ID",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to update meal",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Meal updated successfully",
		"data":    meal,
	})
}

// DeleteMeal godoc
// @Summary Delete a meal
// @Description Delete a meal owned by the authenticated user
// @Tags meals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meal ID"
// @Success 200 {object} map[string]interface{} "Meal deleted successfully"
// @Failure 400 {object} map[string]interface{} "Invalid meal ID"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Meal not found"
// @Failure 500 {object} map[string]interface{} "Failed to delete meal"
// @Router /api/meals/{id} [delete]
func (mc *MealController) DeleteMeal(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	id := c.Param("id")
	if uuid.Validate(id) != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid meal ID",
			"error":   "ID must be a UUID",
		})
		return
	}

	if err := mc.repo.Delete(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Meal not found",
				"error":   "No meal exists with the provided ID",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete meal",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Meal deleted successfully",
		"data":    nil,
	})
}
