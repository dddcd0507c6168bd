package provider

// Asset is the provider's representation of an ingested video. Only the
// fields this service consumes are mapped.
type Asset struct {
	ID             string          `json:"id"`
	Status         AssetStatus     `json:"status"`
	Errors         *AssetErrors    `json:"errors,omitempty"`
	PlaybackIDs    []PlaybackID    `json:"playback_ids"`
	ModerationInfo *ModerationInfo `json:"moderation_info,omitempty"`
	Duration       float64         `json:"duration,omitempty"`
}

// AssetStatus is the provider-side processing state of an asset.
type AssetStatus string

const (
	AssetPreparing AssetStatus = "preparing"
	AssetReady     AssetStatus = "ready"
	AssetErrored   AssetStatus = "errored"
)

// AssetErrors carries provider-side ingest failures, passed through to API
// consumers untouched.
type AssetErrors struct {
	Type     string   `json:"type,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

// PlaybackID is one playback descriptor of an asset. The first entry of
// Asset.PlaybackIDs is canonical.
type PlaybackID struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
}

// Canonical returns the asset's first playback descriptor, or false when the
// provider returned none.
func (a *Asset) Canonical() (PlaybackID, bool) {
	if len(a.PlaybackIDs) == 0 {
		return PlaybackID{}, false
	}
	return a.PlaybackIDs[0], true
}

// ModerationInfo holds provider-computed content-safety scores, 0-5 each.
type ModerationInfo struct {
	Status ModerationStatus `json:"status"`
	Adult  int              `json:"adult"`
	Racy   int              `json:"racy"`
}

// ModerationStatus is the state of a moderation request.
type ModerationStatus string

const (
	ModerationPending ModerationStatus = "pending"
	ModerationReady   ModerationStatus = "ready"
)

// PlaybackObject resolves a playback identifier to the object it belongs to.
// Type distinguishes clippable assets from live streams.
type PlaybackObject struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
	Object struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	} `json:"object"`
}

const (
	// ObjectTypeAsset marks playback identifiers that belong to a stored
	// asset and can therefore be clipped.
	ObjectTypeAsset = "asset"
)

// PlaybackPolicyPublic is the playback policy assigned to derived clips.
const PlaybackPolicyPublic = "public"
