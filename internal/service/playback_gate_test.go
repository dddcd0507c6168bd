package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIsServable_DefaultAllow(t *testing.T) {
	repo := new(mockBlocklistRepo)
	repo.On("IsBlocked", mock.Anything, "unseen").Return(false, nil)

	gate := NewPlaybackGate(repo, nil)
	result, err := gate.IsServable(context.Background(), "unseen")
	require.NoError(t, err)

	assert.True(t, result.Servable)
	assert.Empty(t, result.Reason)
}

func TestIsServable_BlockedWithReason(t *testing.T) {
	repo := new(mockBlocklistRepo)
	repo.On("IsBlocked", mock.Anything, "p2").Return(true, nil)

	gate := NewPlaybackGate(repo, nil)
	result, err := gate.IsServable(context.Background(), "p2")
	require.NoError(t, err)

	assert.False(t, result.Servable)
	assert.Equal(t, ReasonBlocked, result.Reason)
}

func TestIsServable_StoreFailurePropagates(t *testing.T) {
	repo := new(mockBlocklistRepo)
	repo.On("IsBlocked", mock.Anything, "p1").Return(false, errors.New("connection refused"))

	gate := NewPlaybackGate(repo, nil)
	_, err := gate.IsServable(context.Background(), "p1")

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
}
