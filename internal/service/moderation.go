// Package service implements the moderation pipeline, the clip
// orchestrator and the playback gate.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/stream-new/clip-moderation-go/internal/db/repository"
	"github.com/stream-new/clip-moderation-go/internal/metrics"
	"github.com/stream-new/clip-moderation-go/internal/provider"
	"github.com/stream-new/clip-moderation-go/pkg/logger"
)

// Content-safety thresholds. Fixed by policy, not configurable per call:
// a video is blocked when either score reaches its threshold.
const (
	adultThreshold = 3
	racyThreshold  = 4
)

// AssetProvider is the slice of the provider API the pipeline needs.
type AssetProvider interface {
	GetAsset(ctx context.Context, assetID string) (*provider.Asset, error)
	RequestModeration(ctx context.Context, assetID string) (*provider.Asset, error)
}

// EvaluationStatus is the externally visible asset state. Transcoding delay
// and moderation delay are deliberately collapsed into Preparing; a caller
// never needs to know which one it is waiting on.
type EvaluationStatus string

const (
	StatusPreparing EvaluationStatus = "preparing"
	StatusReady     EvaluationStatus = "ready"
)

// Evaluation is the result of running the moderation pipeline for an asset.
type Evaluation struct {
	AssetID    string
	PlaybackID string
	Status     EvaluationStatus
	Blocked    bool
	Errors     *provider.AssetErrors
}

// ModerationPipeline fetches an asset, requests moderation when it is ready
// and unscored, applies the thresholds, and records blocks.
//
// Evaluate runs on the asset-status read path, so this GET-shaped operation
// performs durable writes: the one-shot moderation request and the blocklist
// upsert. This is intentional and the only such exception in the service.
type ModerationPipeline struct {
	provider  AssetProvider
	blocklist repository.BlocklistRepository
	cache     *BlocklistCache
	publisher EventPublisher
}

// NewModerationPipeline creates a pipeline. cache and publisher may be nil;
// both side channels are best-effort.
func NewModerationPipeline(
	p AssetProvider,
	blocklist repository.BlocklistRepository,
	cache *BlocklistCache,
	publisher EventPublisher,
) *ModerationPipeline {
	return &ModerationPipeline{
		provider:  p,
		blocklist: blocklist,
		cache:     cache,
		publisher: publisher,
	}
}

// TooHot applies the fixed thresholds to a pair of content-safety scores.
func TooHot(adult, racy int) bool {
	return adult >= adultThreshold || racy >= racyThreshold
}

// Evaluate runs the pipeline for one asset. Steps execute strictly in order:
// fetch, request moderation, evaluate thresholds, write blocklist. Two
// concurrent calls for the same asset are safe: a duplicate moderation
// request surfaces as a provider conflict and is treated as success, and the
// blocklist write is idempotent.
func (mp *ModerationPipeline) Evaluate(ctx context.Context, assetID string) (*Evaluation, error) {
	asset, err := mp.provider.GetAsset(ctx, assetID)
	if err != nil {
		return nil, &UpstreamError{Op: "get asset", Cause: err}
	}

	canonical, ok := asset.Canonical()
	if !ok {
		return nil, &MalformedAssetError{AssetID: assetID, Reason: "no playback ids"}
	}

	if asset.Status == provider.AssetReady && asset.ModerationInfo == nil {
		logger.Log.Info("requesting moderation for asset", zap.String("asset_id", assetID))
		moderated, err := mp.provider.RequestModeration(ctx, assetID)
		switch {
		case errors.Is(err, provider.ErrModerationExists):
			// A concurrent evaluation beat us to it. Re-fetch so this call
			// sees whatever scores exist by now.
			moderated, err = mp.provider.GetAsset(ctx, assetID)
			if err != nil {
				return nil, &UpstreamError{Op: "refetch asset", Cause: err}
			}
		case err != nil:
			return nil, &UpstreamError{Op: "request moderation", Cause: err}
		}
		asset = moderated
	}

	eval := &Evaluation{
		AssetID:    asset.ID,
		PlaybackID: canonical.ID,
		Status:     StatusPreparing,
		Errors:     asset.Errors,
	}

	info := asset.ModerationInfo
	if info != nil && info.Status == provider.ModerationReady {
		if TooHot(info.Adult, info.Racy) {
			logger.Log.Warn("asset failed moderation, blocking playback",
				zap.String("asset_id", asset.ID),
				zap.String("playback_id", canonical.ID),
				zap.Int("adult", info.Adult),
				zap.Int("racy", info.Racy),
			)
			if err := mp.blockPlayback(ctx, asset.ID, canonical.ID); err != nil {
				return nil, err
			}
			eval.Blocked = true
			metrics.ModerationDecisions.WithLabelValues("blocked").Inc()
		} else {
			metrics.ModerationDecisions.WithLabelValues("clean").Inc()
		}
	} else {
		metrics.ModerationDecisions.WithLabelValues("pending").Inc()
	}

	if asset.Status == provider.AssetReady && info != nil && info.Status == provider.ModerationReady {
		eval.Status = StatusReady
	}

	return eval, nil
}

// BlockPlayback records a block for a playback identifier outside the
// pipeline, used by the moderator disable endpoint. Same side effects as a
// threshold block, without an asset attached.
func (mp *ModerationPipeline) BlockPlayback(ctx context.Context, playbackID string) error {
	return mp.blockPlayback(ctx, "", playbackID)
}

func (mp *ModerationPipeline) blockPlayback(ctx context.Context, assetID, playbackID string) error {
	if _, err := mp.blocklist.SetBlocked(ctx, playbackID); err != nil {
		return &UpstreamError{Op: "write blocklist", Cause: err}
	}

	// Cache and event fan-out are best-effort: the durable write above is
	// what gates playback.
	if mp.cache != nil {
		if err := mp.cache.Add(ctx, playbackID); err != nil {
			logger.Log.Error("failed to add playback id to blocklist cache",
				zap.Error(err), zap.String("playback_id", playbackID))
		}
	}
	if mp.publisher != nil {
		if err := mp.publisher.PublishBlocked(ctx, assetID, playbackID); err != nil {
			logger.Log.Error("failed to publish blocked event",
				zap.Error(err), zap.String("playback_id", playbackID))
		}
	}
	return nil
}
