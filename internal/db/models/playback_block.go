package models

import "time"

// PlaybackBlock is this system's durable record for a playback identifier.
// It is the single source of truth for "is this video blocked", independent
// of the asset's live status at the provider. Rows are created lazily (by a
// moderator action or the moderation pipeline) and never deleted; the flag
// is only ever flipped, so the schema leaves room for a future unblock.
type PlaybackBlock struct {
	PlaybackID           string    `json:"playback_id"`
	DisabledByModeration bool      `json:"disabled_by_moderation"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
