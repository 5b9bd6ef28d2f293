package controllers

import (
	"calsnap/internal/middleware"
	"calsnap/internal/models"
	"calsnap/internal/storage"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PhotoController struct {
	store storage.PhotoStore
}

// NewPhotoController accepts a nil store; uploads then answer 503.
func NewPhotoController(store storage.PhotoStore) *PhotoController {
	return &PhotoController{store: store}
}

// UploadPhoto godoc
// @Summary Upload a meal photo
// @Description Store a captured image and return the URL to keep as the meal's photo_url
// @Tags photos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PhotoUploadRequest true "Base64 image or data URI"
// @Success 201 {object} map[string]interface{} "Photo uploaded successfully"
// @Failure 400 {object} map[string]interface{} "Invalid image"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 413 {object} map[string]interface{} "Payload too large"
// @Failure 503 {object} map[string]interface{} "Photo storage is not configured"
// @Router /api/photos [post]
func (pc *PhotoController) UploadPhoto(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	if pc.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "Photo storage is not configured",
			"error":   storage.ErrPhotosDisabled.Error(),
		})
		return
	}

	var req models.PhotoUploadRequest
	if status, body, ok := bindJSONBody(c, &req); !ok {
		c.JSON(status, body)
		return
	}

	url, err := pc.store.Upload(c.Request.Context(), userID, req.Image)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid image",
				"error":   err.Error(),
			})
			return
		}
		log.Printf("Error uploading photo for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to upload photo",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Photo uploaded successfully",
		"data":    gin.H{"photo_url": url},
	})
}
