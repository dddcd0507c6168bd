package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stream-new/clip-moderation-go/internal/db/models"
)

// BlocklistRepository defines operations on the playback blocklist.
type BlocklistRepository interface {
	// SetBlocked marks a playback identifier as disabled by moderation.
	// The write is an atomic update-or-create: concurrent calls for the
	// same key converge to a single blocked row.
	SetBlocked(ctx context.Context, playbackID string) (*models.PlaybackBlock, error)
	// IsBlocked reports whether a playback identifier is blocked. Absence
	// of a row means not blocked.
	IsBlocked(ctx context.Context, playbackID string) (bool, error)
	GetBlock(ctx context.Context, playbackID string) (*models.PlaybackBlock, error)
	ListBlocks(ctx context.Context, limit, offset int) ([]*models.PlaybackBlock, int, error)
	GetAllBlockedIDs(ctx context.Context) ([]string, error)
}

type blocklistRepository struct {
	pool *pgxpool.Pool
}

// NewBlocklistRepository creates a new BlocklistRepository.
func NewBlocklistRepository(pool *pgxpool.Pool) BlocklistRepository {
	return &blocklistRepository{pool: pool}
}

// SetBlocked upserts the blocked flag for a playback identifier.
// Postgres's ON CONFLICT makes the update-or-create a single logical
// operation with no intermediate state, so no retry loop is needed; any
// other failure class (connectivity, constraint) propagates unchanged.
func (r *blocklistRepository) SetBlocked(ctx context.Context, playbackID string) (*models.PlaybackBlock, error) {
	query := `
		INSERT INTO playback_blocks (playback_id, disabled_by_moderation)
		VALUES ($1, TRUE)
		ON CONFLICT (playback_id)
		DO UPDATE SET disabled_by_moderation = TRUE, updated_at = now()
		RETURNING playback_id, disabled_by_moderation, created_at, updated_at
	`

	var block models.PlaybackBlock
	err := r.pool.QueryRow(ctx, query, playbackID).Scan(
		&block.PlaybackID,
		&block.DisabledByModeration,
		&block.CreatedAt,
		&block.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to block playback id: %w", err)
	}

	return &block, nil
}

// IsBlocked checks the blocked flag for a playback identifier.
func (r *blocklistRepository) IsBlocked(ctx context.Context, playbackID string) (bool, error) {
	query := `SELECT disabled_by_moderation FROM playback_blocks WHERE playback_id = $1`

	var blocked bool
	err := r.pool.QueryRow(ctx, query, playbackID).Scan(&blocked)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check playback block: %w", err)
	}

	return blocked, nil
}

// GetBlock retrieves a single blocklist row, nil when absent.
func (r *blocklistRepository) GetBlock(ctx context.Context, playbackID string) (*models.PlaybackBlock, error) {
	query := `
		SELECT playback_id, disabled_by_moderation, created_at, updated_at
		FROM playback_blocks
		WHERE playback_id = $1
	`

	var block models.PlaybackBlock
	err := r.pool.QueryRow(ctx, query, playbackID).Scan(
		&block.PlaybackID,
		&block.DisabledByModeration,
		&block.CreatedAt,
		&block.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playback block: %w", err)
	}

	return &block, nil
}

// ListBlocks retrieves a paginated list of blocklist rows, newest first.
func (r *blocklistRepository) ListBlocks(ctx context.Context, limit, offset int) ([]*models.PlaybackBlock, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM playback_blocks`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count playback blocks: %w", err)
	}

	query := `
		SELECT playback_id, disabled_by_moderation, created_at, updated_at
		FROM playback_blocks
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list playback blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*models.PlaybackBlock
	for rows.Next() {
		var block models.PlaybackBlock
		if err := rows.Scan(
			&block.PlaybackID,
			&block.DisabledByModeration,
			&block.CreatedAt,
			&block.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan playback block: %w", err)
		}
		blocks = append(blocks, &block)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating playback blocks: %w", err)
	}

	return blocks, total, nil
}

// GetAllBlockedIDs retrieves every blocked playback identifier (for cache
// loading at startup).
func (r *blocklistRepository) GetAllBlockedIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT playback_id FROM playback_blocks WHERE disabled_by_moderation`)
	if err != nil {
		return nil, fmt.Errorf("failed to get blocked playback ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan playback id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating playback ids: %w", err)
	}

	return ids, nil
}
