package service

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/stream-new/clip-moderation-go/internal/db/repository"
	"github.com/stream-new/clip-moderation-go/pkg/logger"
)

const blockedPlaybackSetKey = "playback_blocks:set"

// BlocklistCache keeps the set of blocked playback identifiers in Redis for
// cheap membership checks on the playback read path. Postgres stays the
// source of truth; the cache is write-through and reloaded at startup.
type BlocklistCache struct {
	redisClient *redis.Client
	repo        repository.BlocklistRepository
}

// NewBlocklistCache creates a new BlocklistCache.
func NewBlocklistCache(redisClient *redis.Client, repo repository.BlocklistRepository) *BlocklistCache {
	return &BlocklistCache{
		redisClient: redisClient,
		repo:        repo,
	}
}

// LoadFromDB replaces the cached set with all blocked playback ids from the
// database. Called on application startup and by Sync.
func (c *BlocklistCache) LoadFromDB(ctx context.Context) error {
	ids, err := c.repo.GetAllBlockedIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load blocked playback ids from database: %w", err)
	}

	pipe := c.redisClient.Pipeline()
	pipe.Del(ctx, blockedPlaybackSetKey)

	if len(ids) > 0 {
		members := make([]interface{}, len(ids))
		for i, id := range ids {
			members[i] = id
		}
		pipe.SAdd(ctx, blockedPlaybackSetKey, members...)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to load blocked playback ids into Redis: %w", err)
	}

	logger.Log.Info("blocklist cache loaded", zap.Int("blocked_count", len(ids)))
	return nil
}

// IsBlocked checks set membership for a playback identifier.
func (c *BlocklistCache) IsBlocked(ctx context.Context, playbackID string) (bool, error) {
	blocked, err := c.redisClient.SIsMember(ctx, blockedPlaybackSetKey, playbackID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blocked playback id: %w", err)
	}
	return blocked, nil
}

// Add records a playback identifier as blocked. Called after the database
// write succeeded.
func (c *BlocklistCache) Add(ctx context.Context, playbackID string) error {
	if err := c.redisClient.SAdd(ctx, blockedPlaybackSetKey, playbackID).Err(); err != nil {
		return fmt.Errorf("failed to add playback id to blocklist cache: %w", err)
	}
	return nil
}

// Sync reloads the cached set from the database.
func (c *BlocklistCache) Sync(ctx context.Context) error {
	return c.LoadFromDB(ctx)
}

// Count returns the number of blocked playback ids in the cache.
func (c *BlocklistCache) Count(ctx context.Context) (int64, error) {
	count, err := c.redisClient.SCard(ctx, blockedPlaybackSetKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count blocked playback ids: %w", err)
	}
	return count, nil
}
