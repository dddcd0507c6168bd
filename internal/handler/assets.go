package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stream-new/clip-moderation-go/internal/provider"
	"github.com/stream-new/clip-moderation-go/internal/service"
	"github.com/stream-new/clip-moderation-go/pkg/logger"
)

// AssetEvaluator runs the moderation pipeline for one asset.
type AssetEvaluator interface {
	Evaluate(ctx context.Context, assetID string) (*service.Evaluation, error)
}

// AssetDeleter removes an asset from the provider.
type AssetDeleter interface {
	DeleteAsset(ctx context.Context, assetID string) error
}

// AssetHandler serves asset status polling and moderator deletion.
type AssetHandler struct {
	evaluator AssetEvaluator
	deleter   AssetDeleter
}

func NewAssetHandler(evaluator AssetEvaluator, deleter AssetDeleter) *AssetHandler {
	return &AssetHandler{evaluator: evaluator, deleter: deleter}
}

type assetView struct {
	ID         string                `json:"id"`
	Status     string                `json:"status"`
	Errors     *provider.AssetErrors `json:"errors,omitempty"`
	PlaybackID string                `json:"playback_id,omitempty"`
}

// Get handles GET /assets/:id. Each poll re-runs the moderation pipeline,
// so a hot asset is blocked as a side effect of the caller asking about it.
func (h *AssetHandler) Get(c *gin.Context) {
	assetID := c.Param("id")

	eval, err := h.evaluator.Evaluate(c.Request.Context(), assetID)
	if err != nil {
		logger.Log.Error("asset evaluation failed",
			zap.String("asset_id", assetID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error getting asset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": assetView{
		ID:         eval.AssetID,
		Status:     string(eval.Status),
		Errors:     eval.Errors,
		PlaybackID: eval.PlaybackID,
	}})
}

// Delete handles DELETE /assets/:id. Moderator-only.
func (h *AssetHandler) Delete(c *gin.Context) {
	assetID := c.Param("id")

	if err := h.deleter.DeleteAsset(c.Request.Context(), assetID); err != nil {
		logger.Log.Error("asset deletion failed",
			zap.String("asset_id", assetID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting asset"})
		return
	}

	logger.Log.Info("asset deleted", zap.String("asset_id", assetID))
	c.JSON(http.StatusOK, gin.H{"message": "deleted", "id": assetID})
}
