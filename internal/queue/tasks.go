package queue

import (
	"encoding/json"
	"fmt"
)

// Task types
const (
	TypeEvaluateAsset = "moderation:evaluate"
)

// EvaluateAssetPayload is the payload for asset moderation follow-up tasks.
type EvaluateAssetPayload struct {
	AssetID string `json:"asset_id"`
	Source  string `json:"source"`
}

// NewEvaluateAssetTask creates a moderation follow-up payload.
func NewEvaluateAssetTask(assetID, source string) (*EvaluateAssetPayload, error) {
	if assetID == "" {
		return nil, fmt.Errorf("asset ID is required")
	}
	return &EvaluateAssetPayload{AssetID: assetID, Source: source}, nil
}

// Marshal serializes the payload to JSON.
func (p *EvaluateAssetPayload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalEvaluateAssetPayload deserializes JSON to payload.
func UnmarshalEvaluateAssetPayload(data []byte) (*EvaluateAssetPayload, error) {
	var payload EvaluateAssetPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return &payload, nil
}
