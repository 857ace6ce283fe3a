package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"headshotstyler/models"
	"headshotstyler/services"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeEnqueuer struct {
	task *asynq.Task
	opts []asynq.Option
	err  error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.task = task
	f.opts = opts
	return &asynq.TaskInfo{ID: "task-1", Queue: FeedbackQueue, Type: task.Type()}, nil
}

type fakeImprover struct {
	called bool
	got    models.FeedbackRecord
	err    error
}

func (f *fakeImprover) ImproveSuggestionsWithFeedback(_ context.Context, record models.FeedbackRecord) (*services.ImprovedSuggestions, error) {
	f.called = true
	f.got = record
	if f.err != nil {
		return nil, f.err
	}
	return &services.ImprovedSuggestions{ImprovedSuggestions: "Grey sweater\nDark jeans", Reasoning: "Relaxed."}, nil
}

type fakeNotifier struct {
	improved string
	calls    int
	err      error
}

func (f *fakeNotifier) NotifyFeedback(_ context.Context, _ models.FeedbackRecord, improved string) error {
	f.calls++
	f.improved = improved
	return f.err
}

func samplePayload() ImproveSuggestionsPayload {
	return ImproveSuggestionsPayload{
		SessionID: "session-1",
		RequestID: 3,
		Record: models.FeedbackRecord{
			Suggestion:       "Navy blazer\nWhite shirt",
			Feedback:         "Too formal",
			Role:             "Software Engineer",
			StylePreferences: "modern minimalist",
			Rating:           models.RatingThumbsDown,
		},
	}
}

func TestNewImproveSuggestionsTask(t *testing.T) {
	task, err := NewImproveSuggestionsTask(samplePayload())
	require.NoError(t, err)
	assert.Equal(t, TypeImproveSuggestions, task.Type())

	var decoded ImproveSuggestionsPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, samplePayload(), decoded)
}

func TestQueueFeedbackRecorderEnqueues(t *testing.T) {
	client := &fakeEnqueuer{}
	recorder := &QueueFeedbackRecorder{Client: client, Logger: zaptest.NewLogger(t)}

	result, err := recorder.RecordFeedback(context.Background(), samplePayload())
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotNil(t, client.task)
	assert.Equal(t, TypeImproveSuggestions, client.task.Type())
	assert.Len(t, client.opts, 3)
}

func TestQueueFeedbackRecorderEnqueueFailure(t *testing.T) {
	client := &fakeEnqueuer{err: errors.New("redis down")}
	recorder := &QueueFeedbackRecorder{Client: client, Logger: zaptest.NewLogger(t)}

	result, err := recorder.RecordFeedback(context.Background(), samplePayload())
	require.Error(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, err.Error(), "redis down")
}

func TestHandleImproveSuggestionsTask(t *testing.T) {
	task, err := NewImproveSuggestionsTask(samplePayload())
	require.NoError(t, err)
	improver := &fakeImprover{}
	notifier := &fakeNotifier{}

	err = HandleImproveSuggestionsTask(context.Background(), task, improver, notifier, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, improver.called)
	assert.Equal(t, "Too formal", improver.got.Feedback)
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, "Grey sweater\nDark jeans", notifier.improved)
}

func TestHandleImproveSuggestionsTaskProviderFailure(t *testing.T) {
	task, err := NewImproveSuggestionsTask(samplePayload())
	require.NoError(t, err)
	improver := &fakeImprover{err: &services.GenerationError{Op: models.OperationImproveWithFeedback, Model: "m", Err: services.ErrInvalidResponse}}
	notifier := &fakeNotifier{}

	err = HandleImproveSuggestionsTask(context.Background(), task, improver, notifier, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.True(t, services.IsGenerationError(err))
	assert.Equal(t, 0, notifier.calls)
}

func TestHandleImproveSuggestionsTaskNotifierFailureIsNotFatal(t *testing.T) {
	task, err := NewImproveSuggestionsTask(samplePayload())
	require.NoError(t, err)

	err = HandleImproveSuggestionsTask(context.Background(), task, &fakeImprover{}, &fakeNotifier{err: errors.New("telegram down")}, zaptest.NewLogger(t))
	assert.NoError(t, err)
}

func TestHandleImproveSuggestionsTaskBadPayload(t *testing.T) {
	improver := &fakeImprover{}
	err := HandleImproveSuggestionsTask(context.Background(), asynq.NewTask(TypeImproveSuggestions, []byte("{")), improver, &fakeNotifier{}, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.False(t, improver.called)

	payload := samplePayload()
	payload.Record.Rating = 3
	task, err := NewImproveSuggestionsTask(payload)
	require.NoError(t, err)
	err = HandleImproveSuggestionsTask(context.Background(), task, improver, &fakeNotifier{}, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.False(t, improver.called)
}
