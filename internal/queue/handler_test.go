package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stream-new/clip-moderation-go/internal/service"
	"github.com/stream-new/clip-moderation-go/pkg/logger"
)

func init() {
	_ = logger.Init("error", "")
}

type stubEvaluator struct {
	eval *service.Evaluation
	err  error

	gotAssetID string
}

func (s *stubEvaluator) Evaluate(_ context.Context, assetID string) (*service.Evaluation, error) {
	s.gotAssetID = assetID
	return s.eval, s.err
}

func newTask(t *testing.T, assetID string) *asynq.Task {
	t.Helper()
	payload, err := NewEvaluateAssetTask(assetID, "clip")
	require.NoError(t, err)
	raw, err := payload.Marshal()
	require.NoError(t, err)
	return asynq.NewTask(TypeEvaluateAsset, raw)
}

func TestProcessTask_ReadyAssetCompletes(t *testing.T) {
	ev := &stubEvaluator{eval: &service.Evaluation{
		AssetID: "a1", PlaybackID: "p1", Status: service.StatusReady,
	}}
	h := NewModerationHandler(ev)

	err := h.ProcessTask(context.Background(), newTask(t, "a1"))
	require.NoError(t, err)
	assert.Equal(t, "a1", ev.gotAssetID)
}

func TestProcessTask_PreparingAssetRetries(t *testing.T) {
	ev := &stubEvaluator{eval: &service.Evaluation{
		AssetID: "a1", PlaybackID: "p1", Status: service.StatusPreparing,
	}}
	h := NewModerationHandler(ev)

	err := h.ProcessTask(context.Background(), newTask(t, "a1"))
	require.Error(t, err, "not-ready assets must requeue via retry")
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestProcessTask_PipelineFailureRetries(t *testing.T) {
	ev := &stubEvaluator{err: errors.New("provider down")}
	h := NewModerationHandler(ev)

	err := h.ProcessTask(context.Background(), newTask(t, "a1"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestProcessTask_BadPayloadSkipsRetry(t *testing.T) {
	h := NewModerationHandler(&stubEvaluator{})

	err := h.ProcessTask(context.Background(), asynq.NewTask(TypeEvaluateAsset, []byte("{broken")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestPayloadRoundTrip(t *testing.T) {
	payload, err := NewEvaluateAssetTask("a9", "clip")
	require.NoError(t, err)

	raw, err := payload.Marshal()
	require.NoError(t, err)

	got, err := UnmarshalEvaluateAssetPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "a9", got.AssetID)
	assert.Equal(t, "clip", got.Source)
}

func TestNewEvaluateAssetTaskRequiresAssetID(t *testing.T) {
	_, err := NewEvaluateAssetTask("", "clip")
	assert.Error(t, err)
}
