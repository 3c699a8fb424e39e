package controllers

import (
	"net/http"

	"fieldops-http-service/internal/app/middleware"
	"fieldops-http-service/internal/infrastructure/database"

	"github.com/gin-gonic/gin"
)

// HealthCheckController exposes liveness and readiness probes
type HealthCheckController struct {
	Pool *database.ConnectionPool
}

// NewHealthCheckController creates a health check controller instance
func NewHealthCheckController(pool *database.ConnectionPool) *HealthCheckController {
	return &HealthCheckController{Pool: pool}
}

// Ping is the liveness endpoint
func (h *HealthCheckController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
		"status":  "healthy",
	})
}

// Health reports database connectivity and pool statistics
func (h *HealthCheckController) Health(c *gin.Context) {
	if h.Pool == nil {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		return
	}

	if err := h.Pool.HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	stats, err := h.Pool.Stats()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"pool":   stats,
	})
}

// CacheStats reports the in-memory response cache contents
func (h *HealthCheckController) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CacheStats())
}
