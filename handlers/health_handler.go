package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"regintel-backend/cache"
)

// HealthHandler handles liveness and readiness probes
type HealthHandler struct {
	pool  *pgxpool.Pool
	cache *cache.Cache
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(pool *pgxpool.Pool, c *cache.Cache) *HealthHandler {
	return &HealthHandler{pool: pool, cache: c}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": gin.H{"service": "up"},
	})
}

// Readiness handles GET /readiness. Each dependency reports individually;
// the probe degrades if any configured one is unreachable.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := gin.H{}
	ready := true

	if h.pool != nil {
		if err := h.pool.Ping(c.Request.Context()); err != nil {
			checks["database"] = "down"
			ready = false
		} else {
			checks["database"] = "up"
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.cache != nil {
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			checks["redis"] = "down"
			ready = false
		} else {
			checks["redis"] = "up"
		}
	} else {
		checks["redis"] = "not configured"
	}

	status := "ready"
	code := http.StatusOK
	if !ready {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status": status,
		"checks": checks,
	})
}
