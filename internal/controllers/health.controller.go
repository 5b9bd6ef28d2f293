package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	visionConfigured func() bool
	now              func() time.Time
}

func NewHealthController(visionConfigured func() bool) *HealthController {
	return &HealthController{visionConfigured: visionConfigured, now: time.Now}
}

// Health godoc
// @Summary Liveness probe
// @Description Reports that the server is up and whether the vision gateway credential is present
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Server is healthy"
// @Router /health [get]
func (hc *HealthController) Health(c *gin.Context) {
	vision := "configured"
	if hc.visionConfigured != nil && !hc.visionConfigured() {
		vision = "missing_credential"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": hc.now().UTC().Format(time.RFC3339Nano),
		"vision":    vision,
	})
}
