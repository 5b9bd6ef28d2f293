package controllers

import (
	"calsnap/internal/models"
	"calsnap/internal/services"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AnalyzeFoodController struct {
	analyzer services.FoodAnalyzer
}

func NewAnalyzeFoodController(analyzer services.FoodAnalyzer) *AnalyzeFoodController {
	return &AnalyzeFoodController{analyzer: analyzer}
}

// AnalyzeFood godoc
// @Summary Estimate food and calories from a photo
// @Description Sends the image to the vision gateway and returns the normalized estimate
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body models.AnalyzeFoodRequest true "Base64 image or data URI"
// @Success 200 {object} models.AnalysisResult
// @Failure 400 {object} map[string]interface{} "Image is required"
// @Failure 413 {object} map[string]interface{} "Payload too large"
// @Failure 500 {object} map[string]interface{} "Failed to analyze food"
// @Router /api/analyze-food [post]
func (ac *AnalyzeFoodController) AnalyzeFood(c *gin.Context) {
	var req models.AnalyzeFoodRequest
	if status, body, ok := bindJSONBody(c, &req); !ok {
		c.JSON(status, body)
		return
	}

	result, err := ac.analyzer.Analyze(c.Request.Context(), req.Image)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image is required"})
		case errors.Is(err, services.ErrServerMisconfigured):
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Server misconfigured",
				"message": err.Error(),
			})
		default:
			log.Printf("Error analyzing food: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to analyze food",
				"message": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// bindJSONBody decodes the body, treating an empty body as an empty object.
func bindJSONBody(c *gin.Context, obj interface{}) (int, gin.H, bool) {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return 0, nil, true
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return http.StatusRequestEntityTooLarge, gin.H{"error": "Payload too large"}, false
		}
		return http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()}, false
	}
	return 0, nil, true
}
