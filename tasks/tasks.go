package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"headshotstyler/models"
	"headshotstyler/services"
	"headshotstyler/telegram"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeImproveSuggestions = "feedback:improve_suggestions"
	FeedbackQueue          = "feedback"
)

type ImproveSuggestionsPayload struct {
	SessionID string                `json:"session_id"`
	RequestID uint64                `json:"request_id"`
	Record    models.FeedbackRecord `json:"record"`
}

func NewImproveSuggestionsTask(payload ImproveSuggestionsPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeImproveSuggestions, data), nil
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueFeedbackRecorder hands feedback over to the worker. Success means the
// task was accepted by the broker; nothing is retried.
type QueueFeedbackRecorder struct {
	Client Enqueuer
	Logger *zap.Logger
}

func (r *QueueFeedbackRecorder) RecordFeedback(ctx context.Context, payload ImproveSuggestionsPayload) (*models.FeedbackResult, error) {
	task, err := NewImproveSuggestionsTask(payload)
	if err != nil {
		return &models.FeedbackResult{Success: false}, fmt.Errorf("build feedback task: %w", err)
	}
	info, err := r.Client.EnqueueContext(ctx, task,
		asynq.Queue(FeedbackQueue),
		asynq.MaxRetry(0),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		return &models.FeedbackResult{Success: false}, fmt.Errorf("enqueue feedback task: %w", err)
	}
	r.Logger.Info("feedback queued",
		zap.String("task_id", info.ID),
		zap.String("session", payload.SessionID),
		zap.Uint64("request_id", payload.RequestID),
		zap.String("rating", payload.Record.Rating.String()),
	)
	return &models.FeedbackResult{Success: true}, nil
}

type FeedbackImprover interface {
	ImproveSuggestionsWithFeedback(ctx context.Context, record models.FeedbackRecord) (*services.ImprovedSuggestions, error)
}

func HandleImproveSuggestionsTask(ctx context.Context, t *asynq.Task, improver FeedbackImprover, notifier telegram.Notifier, logger *zap.Logger) error {
	var payload ImproveSuggestionsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	if !payload.Record.Rating.Valid() {
		return fmt.Errorf("feedback for session %s has invalid rating %d: %w", payload.SessionID, payload.Record.Rating, asynq.SkipRetry)
	}
	logger = logger.With(
		zap.String("session", payload.SessionID),
		zap.Uint64("request_id", payload.RequestID),
		zap.String("rating", payload.Record.Rating.String()),
	)

	improved, err := improver.ImproveSuggestionsWithFeedback(ctx, payload.Record)
	if err != nil {
		logger.Error("feedback provider failed", zap.Error(err))
		sentry.CaptureException(fmt.Errorf("[Session: %s] improve suggestions with feedback: %w", payload.SessionID, err))
		return err
	}
	logger.Info("feedback processed", zap.Int("revised_items", len(services.ParseClothingItems(improved.ImprovedSuggestions))))

	if err := notifier.NotifyFeedback(ctx, payload.Record, improved.ImprovedSuggestions); err != nil {
		// notification is best effort
		logger.Warn("feedback notification failed", zap.Error(err))
		sentry.CaptureException(err)
	}
	return nil
}
