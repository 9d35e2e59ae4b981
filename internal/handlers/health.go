// internal/handlers/health.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/price-compare/internal/i18n"
)

type HealthHandler struct {
	ping    func(ctx context.Context) error
	version string
}

func NewHealthHandler(ping func(ctx context.Context) error, version string) *HealthHandler {
	return &HealthHandler{ping: ping, version: version}
}

// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		logrus.WithError(err).Warn("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"message": i18n.T(i18n.KeyUnhealthy),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"message":   i18n.T(i18n.KeyHealthy),
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
