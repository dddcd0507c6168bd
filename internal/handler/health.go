package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/stream-new/clip-moderation-go/internal/service"
)

// HealthHandler handles liveness and readiness probes.
type HealthHandler struct {
	pool      *pgxpool.Pool
	redis     *redis.Client
	publisher *service.MessagePublisher
}

// NewHealthHandler creates a new HealthHandler instance. redis and publisher
// may be nil when those backends are disabled.
func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client, publisher *service.MessagePublisher) *HealthHandler {
	return &HealthHandler{pool: pool, redis: rdb, publisher: publisher}
}

// LivenessProbe checks if the application is running.
func (h *HealthHandler) LivenessProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"time":   time.Now(),
	})
}

// ReadinessProbe checks if the application is ready to serve traffic.
func (h *HealthHandler) ReadinessProbe(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.pool.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "DOWN",
			"database": "unhealthy",
			"error":    err.Error(),
			"time":     time.Now(),
		})
		return
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "DOWN",
				"redis":  "unhealthy",
				"error":  err.Error(),
				"time":   time.Now(),
			})
			return
		}
	}

	if !h.publisher.IsHealthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "DOWN",
			"rabbitmq": "unhealthy",
			"time":     time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "UP",
		"database": "healthy",
		"time":     time.Now(),
	})
}
