// Package provider is the typed gateway to the external media-processing
// API (asset lookup, moderation requests, clip creation, asset deletion).
// Calls are synchronous and never retried here; transport failures surface
// to the caller immediately.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotFound is returned when the provider reports no such asset or
// playback identifier.
var ErrNotFound = errors.New("provider: not found")

// ErrModerationExists is returned when moderation was already requested for
// an asset, usually by a concurrent call. Callers treat it as success.
var ErrModerationExists = errors.New("provider: moderation already requested")

// APIError is a non-2xx provider response. The body is kept verbatim so
// provider-side validation messages can be forwarded to clients.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider: HTTP %d: %s", e.StatusCode, e.Body)
}

// Client talks to the provider's REST API using token-pair basic auth.
type Client struct {
	baseURL     string
	tokenID     string
	tokenSecret string
	httpClient  *http.Client
}

// NewClient creates a provider client. baseURL is the API root without a
// trailing slash, e.g. "https://api.example.com/video".
func NewClient(baseURL, tokenID, tokenSecret string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("provider base URL is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:     baseURL,
		tokenID:     tokenID,
		tokenSecret: tokenSecret,
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// GetAsset fetches an asset by id.
func (c *Client) GetAsset(ctx context.Context, assetID string) (*Asset, error) {
	var asset Asset
	if err := c.do(ctx, http.MethodGet, "/v1/assets/"+assetID, nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// RequestModeration asks the provider to start content-safety scoring for an
// asset and returns the asset as the provider now sees it. A conflict
// response maps to ErrModerationExists.
func (c *Client) RequestModeration(ctx context.Context, assetID string) (*Asset, error) {
	body := map[string]string{"moderation": "standard"}
	var asset Asset
	err := c.do(ctx, http.MethodPut, "/v1/assets/"+assetID+"/moderation", body, &asset)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
			return nil, ErrModerationExists
		}
		return nil, err
	}
	return &asset, nil
}

type clipInput struct {
	URL       string  `json:"url"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

type createAssetRequest struct {
	Input          []clipInput `json:"input"`
	PlaybackPolicy string      `json:"playback_policy"`
}

// CreateClip creates a new asset derived from the [startTime, endTime]
// window of an existing asset. The returned asset id can be polled through
// the normal asset-status path; readiness is not awaited here.
func (c *Client) CreateClip(ctx context.Context, sourceAssetID string, startTime, endTime float64, policy string) (*Asset, error) {
	req := createAssetRequest{
		Input: []clipInput{{
			URL:       "mux://assets/" + sourceAssetID,
			StartTime: startTime,
			EndTime:   endTime,
		}},
		PlaybackPolicy: policy,
	}
	var asset Asset
	if err := c.do(ctx, http.MethodPost, "/v1/assets", req, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetPlaybackID resolves a playback identifier to its owning object.
func (c *Client) GetPlaybackID(ctx context.Context, playbackID string) (*PlaybackObject, error) {
	var obj PlaybackObject
	if err := c.do(ctx, http.MethodGet, "/v1/playback-ids/"+playbackID, nil, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

// DeleteAsset removes an asset from the provider.
func (c *Client) DeleteAsset(ctx context.Context, assetID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/assets/"+assetID, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokenID != "" {
		req.SetBasicAuth(c.tokenID, c.tokenSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read provider response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &APIError{StatusCode: resp.StatusCode, Body: respBody}
	}

	if out == nil {
		return nil
	}

	var envelope dataEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	if envelope.Data == nil {
		return fmt.Errorf("decode provider response: missing data field")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}
