package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/stream-new/clip-moderation-go/internal/db/repository"
	"github.com/stream-new/clip-moderation-go/pkg/logger"
)

// ReasonBlocked is the only non-servable reason currently produced.
const ReasonBlocked = "blocked"

// Servability is the playback gate's answer for one playback identifier.
type Servability struct {
	PlaybackID string `json:"playback_id"`
	Servable   bool   `json:"servable"`
	Reason     string `json:"reason,omitempty"`
}

// PlaybackGate answers "may this playback id be served" from the blocklist.
// It never calls the provider, and callers must consult it on every view
// request: moderation can flip an id after it was first served.
type PlaybackGate struct {
	blocklist repository.BlocklistRepository
	cache     *BlocklistCache
}

// NewPlaybackGate creates a gate. cache may be nil.
func NewPlaybackGate(blocklist repository.BlocklistRepository, cache *BlocklistCache) *PlaybackGate {
	return &PlaybackGate{blocklist: blocklist, cache: cache}
}

// IsServable checks a playback identifier against the blocklist. Absence of
// an entry means servable (default-allow). A positive cache hit is trusted;
// a cache miss or cache failure falls through to Postgres, so a block whose
// cache write was lost still gates playback.
func (g *PlaybackGate) IsServable(ctx context.Context, playbackID string) (*Servability, error) {
	if g.cache != nil {
		blocked, err := g.cache.IsBlocked(ctx, playbackID)
		if err != nil {
			logger.Log.Warn("blocklist cache unavailable, falling back to database",
				zap.Error(err), zap.String("playback_id", playbackID))
		} else if blocked {
			return &Servability{PlaybackID: playbackID, Servable: false, Reason: ReasonBlocked}, nil
		}
	}

	blocked, err := g.blocklist.IsBlocked(ctx, playbackID)
	if err != nil {
		return nil, &UpstreamError{Op: "read blocklist", Cause: err}
	}
	if blocked {
		return &Servability{PlaybackID: playbackID, Servable: false, Reason: ReasonBlocked}, nil
	}
	return &Servability{PlaybackID: playbackID, Servable: true}, nil
}
