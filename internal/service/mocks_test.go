package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/stream-new/clip-moderation-go/internal/db/models"
	"github.com/stream-new/clip-moderation-go/internal/provider"
	"github.com/stream-new/clip-moderation-go/pkg/logger"
)

func init() {
	// Handlers and services log through the global; keep test output quiet.
	_ = logger.Init("error", "")
}

type mockAssetProvider struct {
	mock.Mock
}

func (m *mockAssetProvider) GetAsset(ctx context.Context, assetID string) (*provider.Asset, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Asset), args.Error(1)
}

func (m *mockAssetProvider) RequestModeration(ctx context.Context, assetID string) (*provider.Asset, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Asset), args.Error(1)
}

type mockClipProvider struct {
	mock.Mock
}

func (m *mockClipProvider) GetPlaybackID(ctx context.Context, playbackID string) (*provider.PlaybackObject, error) {
	args := m.Called(ctx, playbackID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.PlaybackObject), args.Error(1)
}

func (m *mockClipProvider) CreateClip(ctx context.Context, sourceAssetID string, startTime, endTime float64, policy string) (*provider.Asset, error) {
	args := m.Called(ctx, sourceAssetID, startTime, endTime, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Asset), args.Error(1)
}

type mockBlocklistRepo struct {
	mock.Mock
}

func (m *mockBlocklistRepo) SetBlocked(ctx context.Context, playbackID string) (*models.PlaybackBlock, error) {
	args := m.Called(ctx, playbackID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlaybackBlock), args.Error(1)
}

func (m *mockBlocklistRepo) IsBlocked(ctx context.Context, playbackID string) (bool, error) {
	args := m.Called(ctx, playbackID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBlocklistRepo) GetBlock(ctx context.Context, playbackID string) (*models.PlaybackBlock, error) {
	args := m.Called(ctx, playbackID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlaybackBlock), args.Error(1)
}

func (m *mockBlocklistRepo) ListBlocks(ctx context.Context, limit, offset int) ([]*models.PlaybackBlock, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.PlaybackBlock), args.Int(1), args.Error(2)
}

func (m *mockBlocklistRepo) GetAllBlockedIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishBlocked(ctx context.Context, assetID, playbackID string) error {
	args := m.Called(ctx, assetID, playbackID)
	return args.Error(0)
}

func (m *mockPublisher) PublishClipCreated(ctx context.Context, sourcePlaybackID, newAssetID string) error {
	args := m.Called(ctx, sourcePlaybackID, newAssetID)
	return args.Error(0)
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueAssetEvaluation(ctx context.Context, assetID string) error {
	args := m.Called(ctx, assetID)
	return args.Error(0)
}
