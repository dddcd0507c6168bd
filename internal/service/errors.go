package service

import "fmt"

// UpstreamError wraps a provider or store failure that the caller cannot do
// anything about. Surfaced as a generic 500; never retried automatically.
type UpstreamError struct {
	Op    string
	Cause error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream failure during %s: %v", e.Op, e.Cause)
}

func (e *UpstreamError) Unwrap() error { return e.Cause }

// MalformedAssetError means the provider returned an asset violating its own
// contract (e.g. no playback ids). Fatal for the call, not retried.
type MalformedAssetError struct {
	AssetID string
	Reason  string
}

func (e *MalformedAssetError) Error() string {
	return fmt.Sprintf("malformed asset %s: %s", e.AssetID, e.Reason)
}

// InvalidRangeError rejects a clip time window before any provider call.
type InvalidRangeError struct {
	Message string
}

func (e *InvalidRangeError) Error() string { return e.Message }

// UnknownPlaybackIDError means the playback identifier does not resolve at
// the provider.
type UnknownPlaybackIDError struct {
	PlaybackID string
}

func (e *UnknownPlaybackIDError) Error() string {
	return fmt.Sprintf("unknown playback id: %s", e.PlaybackID)
}

// NotClippableError means the playback identifier resolves to something that
// is not a stored asset (e.g. a live stream).
type NotClippableError struct {
	PlaybackID string
	ObjectType string
}

func (e *NotClippableError) Error() string {
	return fmt.Sprintf("playback id %s resolves to a %q, expected an asset", e.PlaybackID, e.ObjectType)
}

// UpstreamRejectedError carries the provider's own rejection of a clip
// request. The body is forwarded verbatim so the caller can render the
// provider-specific message.
type UpstreamRejectedError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamRejectedError) Error() string {
	return fmt.Sprintf("provider rejected request (HTTP %d)", e.StatusCode)
}
