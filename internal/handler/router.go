package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/stream-new/clip-moderation-go/internal/metrics"
	"github.com/stream-new/clip-moderation-go/internal/middleware"
)

// Routes bundles the handlers the HTTP surface is assembled from.
type Routes struct {
	Assets   *AssetHandler
	Clips    *ClipHandler
	Playback *PlaybackHandler
	Health   *HealthHandler

	// ModeratorSecret guards the moderation control endpoints.
	ModeratorSecret string
}

// NewRouter assembles the gin engine with all application routes.
func NewRouter(r Routes) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(metrics.Middleware())

	engine.GET("/health", r.Health.LivenessProbe)
	engine.GET("/ready", r.Health.ReadinessProbe)
	engine.GET("/metrics", metrics.Handler())

	engine.GET("/assets/:id", r.Assets.Get)
	engine.POST("/clips", r.Clips.Create)
	engine.GET("/playback-ids/:id", r.Playback.Check)

	auth := middleware.NewModeratorAuth(r.ModeratorSecret)
	mod := engine.Group("")
	mod.Use(auth.Middleware())
	{
		mod.DELETE("/assets/:id", r.Assets.Delete)
		mod.PUT("/playback-ids/:id/disable", r.Playback.Disable)
		mod.GET("/playback-blocks", r.Playback.List)
	}

	return engine
}
