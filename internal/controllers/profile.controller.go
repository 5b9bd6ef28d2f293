package controllers

import (
	"calsnap/internal/middleware"
	"calsnap/internal/models"
	"calsnap/internal/repository"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProfileController struct {
	repo repository.ProfileRepository
}

func NewProfileController(repo repository.ProfileRepository) *ProfileController {
	return &ProfileController{repo: repo}
}

// GetProfile godoc
// @Summary Get profile
// @Description Retrieve the authenticated user's profile, provisioning it with the default goal on first access
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Profile retrieved successfully"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Failed to retrieve profile"
// @Router /api/profile [get]
func (pc *ProfileController) GetProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	email := c.GetString(middleware.EmailKey)
	profile, err := pc.repo.FirstOrCreate(userID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve profile",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Profile retrieved successfully",
		"data":    profile,
	})
}

// PatchProfile godoc
// @Summary Update daily calorie goal
// @Description Change the authenticated user's daily calorie goal
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body models.ProfilePatch true "New goal"
// @Success 200 {object} map[string]interface{} "Profile updated successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Profile not found"
// @Failure 500 {object} map[string]interface{} "Failed to update profile"
// @Router /api/profile [patch]
func (pc *ProfileController) PatchProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	var patch models.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}
	if patch.DailyCalorieGoal == nil || *patch.DailyCalorieGoal <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   "daily_calorie_goal must be a positive integer",
		})
		return
	}

	// Provision on first write too, so a goal can be set before any read.
	if _, err := pc.repo.FirstOrCreate(userID, c.GetString(middleware.EmailKey)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to update profile",
			"error":   err.Error(),
		})
		return
	}

	profile, err := pc.repo.Patch(userID, map[string]interface{}{
		"daily_calorie_goal": *patch.DailyCalorieGoal,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Profile not found",
				"error":   "No profile exists for this user",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to update profile",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Profile updated successfully",
		"data":    profile,
	})
}
