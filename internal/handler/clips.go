package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stream-new/clip-moderation-go/internal/service"
	"github.com/stream-new/clip-moderation-go/pkg/logger"
)

// ClipCreator turns a validated clip request into a new provider asset.
type ClipCreator interface {
	CreateClip(ctx context.Context, req service.ClipRequest) (string, error)
}

// ClipHandler serves clip creation requests.
type ClipHandler struct {
	creator ClipCreator
}

func NewClipHandler(creator ClipCreator) *ClipHandler {
	return &ClipHandler{creator: creator}
}

type clipRequestBody struct {
	PlaybackID string   `json:"playbackId"`
	StartTime  *float64 `json:"startTime"`
	EndTime    *float64 `json:"endTime"`
}

// Create handles POST /clips.
func (h *ClipHandler) Create(c *gin.Context) {
	var body clipRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Invalid request body"}})
		return
	}

	if body.PlaybackID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Need a playbackId"}})
		return
	}
	if body.StartTime == nil || body.EndTime == nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Need startTime and endTime"}})
		return
	}

	assetID, err := h.creator.CreateClip(c.Request.Context(), service.ClipRequest{
		SourcePlaybackID: body.PlaybackID,
		StartTime:        *body.StartTime,
		EndTime:          *body.EndTime,
	})
	if err != nil {
		respondServiceError(c, err, "Error creating clip")
		return
	}

	logger.Log.Info("clip requested",
		zap.String("playback_id", body.PlaybackID),
		zap.String("asset_id", assetID),
	)
	c.JSON(http.StatusOK, gin.H{"id": assetID})
}
