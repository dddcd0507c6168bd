package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/stream-new/clip-moderation-go/internal/service"
	"github.com/stream-new/clip-moderation-go/pkg/logger"
)

// Evaluator runs the moderation pipeline for one asset.
type Evaluator interface {
	Evaluate(ctx context.Context, assetID string) (*service.Evaluation, error)
}

// ModerationHandler processes moderation follow-up tasks.
type ModerationHandler struct {
	pipeline Evaluator
}

// NewModerationHandler creates a moderation task handler.
func NewModerationHandler(pipeline Evaluator) *ModerationHandler {
	return &ModerationHandler{pipeline: pipeline}
}

// ProcessTask implements asynq.Handler. Returning an error makes asynq
// retry with backoff, which doubles as the polling loop for assets the
// provider is still transcoding or scoring.
func (h *ModerationHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload, err := UnmarshalEvaluateAssetPayload(task.Payload())
	if err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	eval, err := h.pipeline.Evaluate(ctx, payload.AssetID)
	if err != nil {
		return fmt.Errorf("evaluate asset %s: %w", payload.AssetID, err)
	}

	if eval.Status != service.StatusReady {
		return fmt.Errorf("asset %s still %s, retrying later", payload.AssetID, eval.Status)
	}

	logger.Log.Info("moderation follow-up complete",
		zap.String("asset_id", eval.AssetID),
		zap.String("playback_id", eval.PlaybackID),
		zap.Bool("blocked", eval.Blocked),
	)
	return nil
}
