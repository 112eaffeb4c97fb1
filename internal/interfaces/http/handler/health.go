package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler answers liveness probes
type HealthHandler struct {
	BaseHandler
	appName string
}

// NewHealthHandler creates a health handler
func NewHealthHandler(appName string) *HealthHandler {
	return &HealthHandler{appName: appName}
}

// RegisterRoutes registers health endpoints
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{
		"status":  "ok",
		"service": h.appName,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
