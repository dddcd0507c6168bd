// Package queue schedules moderation follow-up work for newly created
// assets so a clip gets scored even when nobody visits it.
package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/stream-new/clip-moderation-go/internal/config"
	"github.com/stream-new/clip-moderation-go/pkg/logger"
)

// Client wraps the asynq client for enqueueing tasks.
type Client struct {
	asynqClient *asynq.Client
}

// NewClient creates a queue client against the shared Redis instance.
func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		asynqClient: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// Close closes the client connection.
func (c *Client) Close() error {
	return c.asynqClient.Close()
}

// EnqueueAssetEvaluation schedules a moderation evaluation for an asset.
// The first attempt is delayed: a freshly created clip is never ready
// immediately, and the handler retries while the provider processes it.
func (c *Client) EnqueueAssetEvaluation(ctx context.Context, assetID string) error {
	payload, err := NewEvaluateAssetTask(assetID, "clip")
	if err != nil {
		return fmt.Errorf("failed to create task payload: %w", err)
	}

	raw, err := payload.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeEvaluateAsset, raw)

	info, err := c.asynqClient.EnqueueContext(ctx, task,
		asynq.MaxRetry(10),
		asynq.ProcessIn(30*time.Second),
		asynq.Timeout(2*time.Minute),
		asynq.Queue("default"),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	logger.Log.Info("enqueued moderation evaluation",
		zap.String("asset_id", assetID),
		zap.String("task_id", info.ID),
	)
	return nil
}
