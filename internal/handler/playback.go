package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stream-new/clip-moderation-go/internal/db/models"
	"github.com/stream-new/clip-moderation-go/internal/service"
	"github.com/stream-new/clip-moderation-go/pkg/logger"
)

// PlaybackBlocker records a moderation block for a playback identifier.
type PlaybackBlocker interface {
	BlockPlayback(ctx context.Context, playbackID string) error
}

// ServabilityChecker decides whether a playback identifier may be served.
type ServabilityChecker interface {
	IsServable(ctx context.Context, playbackID string) (*service.Servability, error)
}

// BlockLister reads the persisted blocklist.
type BlockLister interface {
	ListBlocks(ctx context.Context, limit, offset int) ([]*models.PlaybackBlock, int, error)
}

// PlaybackHandler serves the playback gate and moderator blocklist endpoints.
type PlaybackHandler struct {
	blocker PlaybackBlocker
	gate    ServabilityChecker
	lister  BlockLister
}

func NewPlaybackHandler(blocker PlaybackBlocker, gate ServabilityChecker, lister BlockLister) *PlaybackHandler {
	return &PlaybackHandler{blocker: blocker, gate: gate, lister: lister}
}

// Disable handles PUT /playback-ids/:id/disable. Moderator-only.
func (h *PlaybackHandler) Disable(c *gin.Context) {
	playbackID := c.Param("id")

	if err := h.blocker.BlockPlayback(c.Request.Context(), playbackID); err != nil {
		logger.Log.Error("manual block failed",
			zap.String("playback_id", playbackID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error disabling playback id"})
		return
	}

	logger.Log.Info("playback id disabled by moderator", zap.String("playback_id", playbackID))
	c.JSON(http.StatusOK, gin.H{"message": "blocked", "playbackId": playbackID})
}

// Check handles GET /playback-ids/:id.
func (h *PlaybackHandler) Check(c *gin.Context) {
	playbackID := c.Param("id")

	servability, err := h.gate.IsServable(c.Request.Context(), playbackID)
	if err != nil {
		logger.Log.Error("servability check failed",
			zap.String("playback_id", playbackID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking playback id"})
		return
	}

	c.JSON(http.StatusOK, servability)
}

type blockView struct {
	PlaybackID           string `json:"playback_id"`
	DisabledByModeration bool   `json:"disabled_by_moderation"`
	CreatedAt            string `json:"created_at"`
	UpdatedAt            string `json:"updated_at"`
}

// List handles GET /playback-blocks. Moderator-only.
func (h *PlaybackHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	blocks, total, err := h.lister.ListBlocks(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Log.Error("blocklist query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing playback blocks"})
		return
	}

	views := make([]blockView, 0, len(blocks))
	for _, b := range blocks {
		views = append(views, blockView{
			PlaybackID:           b.PlaybackID,
			DisabledByModeration: b.DisabledByModeration,
			CreatedAt:            b.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			UpdatedAt:            b.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   views,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
