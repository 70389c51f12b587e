package handlers

import (
	"context"
	"net/http"
	"time"

	"certificate-service-go/internal/pkg/circuitbreaker"
	"certificate-service-go/internal/pkg/connpool"

	"github.com/gin-gonic/gin"
)

// RendererHealth состояние растеризатора
type RendererHealth interface {
	State() circuitbreaker.State
	IsHealthy() bool
	HealthCheck(ctx context.Context) error
	PoolStats() connpool.Stats
}

type HealthHandler struct {
	renderer RendererHealth
}

func NewHealthHandler(renderer RendererHealth) *HealthHandler {
	return &HealthHandler{renderer: renderer}
}

// Health отдает 503, если предохранитель Gotenberg разомкнут.
// С параметром deep=true дополнительно опрашивается сам Gotenberg.
func (h *HealthHandler) Health(c *gin.Context) {
	healthy := h.renderer.IsHealthy()
	gotenberg := gin.H{
		"status": healthy,
		"state":  h.renderer.State().String(),
	}

	if c.Query("deep") == "true" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := h.renderer.HealthCheck(ctx); err != nil {
			healthy = false
			gotenberg["error"] = err.Error()
		}
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"details": gin.H{
			"circuit_breakers": gin.H{
				"gotenberg": gotenberg,
			},
			"pools": gin.H{
				"gotenberg": h.renderer.PoolStats(),
			},
		},
	})
}
