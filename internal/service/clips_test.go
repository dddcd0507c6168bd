package service

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stream-new/clip-moderation-go/internal/provider"
)

func assetPlayback(playbackID, assetID string) *provider.PlaybackObject {
	obj := &provider.PlaybackObject{ID: playbackID, Policy: "public"}
	obj.Object.Type = provider.ObjectTypeAsset
	obj.Object.ID = assetID
	return obj
}

func TestCreateClip_RejectsInvalidRangeBeforeProviderCall(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
	}{
		{"end before start", 10, 5},
		{"end equals start", 10, 10},
		{"negative start", -1, 5},
		{"negative end", 0, -5},
		{"NaN start", math.NaN(), 5},
		{"infinite end", 0, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := new(mockClipProvider)
			co := NewClipOrchestrator(p, nil, nil)

			_, err := co.CreateClip(context.Background(), ClipRequest{
				SourcePlaybackID: "p3",
				StartTime:        tt.start,
				EndTime:          tt.end,
			})

			var invalid *InvalidRangeError
			require.True(t, errors.As(err, &invalid), "want InvalidRangeError, got %v", err)
			p.AssertNotCalled(t, "GetPlaybackID", mock.Anything, mock.Anything)
			p.AssertNotCalled(t, "CreateClip", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateClip_UnknownPlaybackID(t *testing.T) {
	p := new(mockClipProvider)
	p.On("GetPlaybackID", mock.Anything, "nope").Return(nil, provider.ErrNotFound)

	co := NewClipOrchestrator(p, nil, nil)
	_, err := co.CreateClip(context.Background(), ClipRequest{
		SourcePlaybackID: "nope", StartTime: 1, EndTime: 2,
	})

	var unknown *UnknownPlaybackIDError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "nope", unknown.PlaybackID)
}

func TestCreateClip_LiveStreamIsNotClippable(t *testing.T) {
	p := new(mockClipProvider)
	obj := &provider.PlaybackObject{ID: "live-1"}
	obj.Object.Type = "live_stream"
	obj.Object.ID = "stream-9"
	p.On("GetPlaybackID", mock.Anything, "live-1").Return(obj, nil)

	co := NewClipOrchestrator(p, nil, nil)
	_, err := co.CreateClip(context.Background(), ClipRequest{
		SourcePlaybackID: "live-1", StartTime: 1, EndTime: 2,
	})

	var notClippable *NotClippableError
	require.True(t, errors.As(err, &notClippable))
	assert.Equal(t, "live_stream", notClippable.ObjectType)
	p.AssertNotCalled(t, "CreateClip", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateClip_Success(t *testing.T) {
	p := new(mockClipProvider)
	enq := new(mockEnqueuer)
	pub := new(mockPublisher)

	p.On("GetPlaybackID", mock.Anything, "p3").Return(assetPlayback("p3", "src-asset"), nil)
	p.On("CreateClip", mock.Anything, "src-asset", 10.0, 20.0, provider.PlaybackPolicyPublic).Return(
		&provider.Asset{ID: "clip-1", Status: provider.AssetPreparing}, nil)
	enq.On("EnqueueAssetEvaluation", mock.Anything, "clip-1").Return(nil)
	pub.On("PublishClipCreated", mock.Anything, "p3", "clip-1").Return(nil)

	co := NewClipOrchestrator(p, enq, pub)
	assetID, err := co.CreateClip(context.Background(), ClipRequest{
		SourcePlaybackID: "p3", StartTime: 10, EndTime: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, "clip-1", assetID)
	p.AssertExpectations(t)
	enq.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestCreateClip_EnqueueFailureDoesNotFailRequest(t *testing.T) {
	p := new(mockClipProvider)
	enq := new(mockEnqueuer)

	p.On("GetPlaybackID", mock.Anything, "p3").Return(assetPlayback("p3", "src-asset"), nil)
	p.On("CreateClip", mock.Anything, "src-asset", 1.0, 2.0, provider.PlaybackPolicyPublic).Return(
		&provider.Asset{ID: "clip-2"}, nil)
	enq.On("EnqueueAssetEvaluation", mock.Anything, "clip-2").Return(errors.New("redis down"))

	co := NewClipOrchestrator(p, enq, nil)
	assetID, err := co.CreateClip(context.Background(), ClipRequest{
		SourcePlaybackID: "p3", StartTime: 1, EndTime: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "clip-2", assetID)
}

func TestCreateClip_ProviderRejectionForwardsBody(t *testing.T) {
	p := new(mockClipProvider)

	p.On("GetPlaybackID", mock.Anything, "p3").Return(assetPlayback("p3", "src-asset"), nil)
	p.On("CreateClip", mock.Anything, "src-asset", 0.0, 9999.0, provider.PlaybackPolicyPublic).Return(
		nil, &provider.APIError{
			StatusCode: http.StatusBadRequest,
			Body:       []byte(`{"error":{"messages":["end_time exceeds duration"]}}`),
		})

	co := NewClipOrchestrator(p, nil, nil)
	_, err := co.CreateClip(context.Background(), ClipRequest{
		SourcePlaybackID: "p3", StartTime: 0, EndTime: 9999,
	})

	var rejected *UpstreamRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, http.StatusBadRequest, rejected.StatusCode)
	assert.Contains(t, string(rejected.Body), "end_time exceeds duration")
}

func TestCreateClip_TransportFailureIsUpstream(t *testing.T) {
	p := new(mockClipProvider)

	p.On("GetPlaybackID", mock.Anything, "p3").Return(nil, errors.New("dial tcp: timeout"))

	co := NewClipOrchestrator(p, nil, nil)
	_, err := co.CreateClip(context.Background(), ClipRequest{
		SourcePlaybackID: "p3", StartTime: 1, EndTime: 2,
	})

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
}
