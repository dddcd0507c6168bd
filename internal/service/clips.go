package service

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/stream-new/clip-moderation-go/internal/metrics"
	"github.com/stream-new/clip-moderation-go/internal/provider"
	"github.com/stream-new/clip-moderation-go/pkg/logger"
)

// ClipProvider is the slice of the provider API the orchestrator needs.
type ClipProvider interface {
	GetPlaybackID(ctx context.Context, playbackID string) (*provider.PlaybackObject, error)
	CreateClip(ctx context.Context, sourceAssetID string, startTime, endTime float64, policy string) (*provider.Asset, error)
}

// TaskEnqueuer schedules follow-up moderation for newly created assets.
type TaskEnqueuer interface {
	EnqueueAssetEvaluation(ctx context.Context, assetID string) error
}

// ClipRequest is a client-submitted time window over a source playback id.
type ClipRequest struct {
	SourcePlaybackID string
	StartTime        float64
	EndTime          float64
}

// ClipOrchestrator validates clip requests and creates derived assets at
// the provider. Creation is fire-and-forget: the new asset's readiness is
// tracked later through the normal asset-status path.
type ClipOrchestrator struct {
	provider  ClipProvider
	enqueuer  TaskEnqueuer
	publisher EventPublisher
}

// NewClipOrchestrator creates an orchestrator. enqueuer and publisher may be
// nil; both are best-effort follow-ups.
func NewClipOrchestrator(p ClipProvider, enqueuer TaskEnqueuer, publisher EventPublisher) *ClipOrchestrator {
	return &ClipOrchestrator{provider: p, enqueuer: enqueuer, publisher: publisher}
}

// ValidateRange rejects malformed time windows before anything touches the
// provider.
func ValidateRange(startTime, endTime float64) error {
	if math.IsNaN(startTime) || math.IsInf(startTime, 0) ||
		math.IsNaN(endTime) || math.IsInf(endTime, 0) {
		return &InvalidRangeError{Message: "startTime and endTime must be finite numbers"}
	}
	if startTime < 0 || endTime < 0 {
		return &InvalidRangeError{Message: "startTime and endTime must not be negative"}
	}
	if endTime <= startTime {
		return &InvalidRangeError{Message: "endTime must be greater than startTime"}
	}
	return nil
}

// CreateClip resolves the source playback id, checks it belongs to a stored
// asset, and asks the provider for a derived asset over the requested
// window. Returns the new asset id for client-side polling.
func (co *ClipOrchestrator) CreateClip(ctx context.Context, req ClipRequest) (string, error) {
	if err := ValidateRange(req.StartTime, req.EndTime); err != nil {
		metrics.ClipRequests.WithLabelValues("rejected").Inc()
		return "", err
	}

	playback, err := co.provider.GetPlaybackID(ctx, req.SourcePlaybackID)
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			metrics.ClipRequests.WithLabelValues("rejected").Inc()
			return "", &UnknownPlaybackIDError{PlaybackID: req.SourcePlaybackID}
		}
		metrics.ClipRequests.WithLabelValues("failed").Inc()
		return "", &UpstreamError{Op: "resolve playback id", Cause: err}
	}

	if playback.Object.Type != provider.ObjectTypeAsset {
		metrics.ClipRequests.WithLabelValues("rejected").Inc()
		return "", &NotClippableError{
			PlaybackID: req.SourcePlaybackID,
			ObjectType: playback.Object.Type,
		}
	}

	asset, err := co.provider.CreateClip(ctx, playback.Object.ID, req.StartTime, req.EndTime, provider.PlaybackPolicyPublic)
	if err != nil {
		var apiErr *provider.APIError
		if errors.As(err, &apiErr) {
			metrics.ClipRequests.WithLabelValues("rejected").Inc()
			return "", &UpstreamRejectedError{StatusCode: apiErr.StatusCode, Body: apiErr.Body}
		}
		metrics.ClipRequests.WithLabelValues("failed").Inc()
		return "", &UpstreamError{Op: "create clip", Cause: err}
	}

	logger.Log.Info("clip created",
		zap.String("source_playback_id", req.SourcePlaybackID),
		zap.String("asset_id", asset.ID),
		zap.Float64("start_time", req.StartTime),
		zap.Float64("end_time", req.EndTime),
	)
	metrics.ClipRequests.WithLabelValues("created").Inc()

	// Follow-ups are best-effort: the clip exists either way, and the new
	// asset is moderated on its first status read regardless.
	if co.enqueuer != nil {
		if err := co.enqueuer.EnqueueAssetEvaluation(ctx, asset.ID); err != nil {
			logger.Log.Error("failed to enqueue moderation for clip",
				zap.Error(err), zap.String("asset_id", asset.ID))
		}
	}
	if co.publisher != nil {
		if err := co.publisher.PublishClipCreated(ctx, req.SourcePlaybackID, asset.ID); err != nil {
			logger.Log.Error("failed to publish clip.created event",
				zap.Error(err), zap.String("asset_id", asset.ID))
		}
	}

	return asset.ID, nil
}
