package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bankacem/ExtensionTo-CMS/internal/sharding"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	shards *sharding.ShardSet
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(shards *sharding.ShardSet) *HealthHandler {
	return &HealthHandler{shards: shards}
}

// HealthResponse represents the response for health check endpoints.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	CheckedAt string            `json:"checked_at"`
	Services  map[string]string `json:"services,omitempty"`
}

// Health handles GET /health - pings every shard and reports each one.
func (h *HealthHandler) Health(c *gin.Context) {
	services := make(map[string]string, h.shards.Len())
	healthy := true

	for i := 0; i < h.shards.Len(); i++ {
		name := fmt.Sprintf("shard_%d", i)
		if err := h.shards.Shard(i).Ping(c.Request.Context()); err != nil {
			services[name] = "unhealthy"
			healthy = false
		} else {
			services[name] = "healthy"
		}
	}

	checkedAt := time.Now().UTC().Format(TimeFormat)

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:    "unhealthy",
			CheckedAt: checkedAt,
			Services:  services,
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   "1.0.0",
		CheckedAt: checkedAt,
		Services:  services,
	})
}

// Ready handles GET /ready - readiness probe for Kubernetes. The service is
// only ready when every shard answers; a single missing shard would make
// broadcast reads fail anyway.
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.shards.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Live handles GET /live - liveness probe for Kubernetes.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
