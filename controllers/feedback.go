package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"headshotstyler/metrics"
	"headshotstyler/models"
	"headshotstyler/tasks"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type FeedbackRecorder interface {
	RecordFeedback(ctx context.Context, payload tasks.ImproveSuggestionsPayload) (*models.FeedbackResult, error)
}

type FeedbackIn struct {
	RequestID uint64         `json:"request_id" form:"request_id" validate:"required"`
	Rating    *models.Rating `json:"rating" form:"rating" validate:"required,rating"`
	Feedback  string         `json:"feedback" form:"feedback" validate:"max=2000"`
}

type FeedbackResponse struct {
	Success bool   `json:"success"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

type FeedbackController struct {
	Recorder FeedbackRecorder
	Logger   *zap.Logger
}

func (controller *FeedbackController) FeedbackRoutes(g *echo.Group) {
	g.POST("", controller.SubmitFeedback)
}

func (controller *FeedbackController) SubmitFeedback(c echo.Context) error {
	session, ok := currentSession(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": unexpectedErrorMessage})
	}

	var req FeedbackIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": invalidRequestBodyMessage})
	}
	// checked before anything else so an unrated form never reaches the recorder
	if req.Rating == nil {
		return c.JSON(http.StatusBadRequest, FeedbackResponse{Success: false, Title: ratingRequiredTitle, Message: ratingRequiredMessage})
	}
	req.Feedback = strings.TrimSpace(req.Feedback)
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, validationResponse(err))
	}

	seq, styleRequest, suggestion, active := session.Active()
	if !active || seq != req.RequestID {
		return c.JSON(http.StatusConflict, FeedbackResponse{Success: false, Message: noActiveSuggestion})
	}
	if !session.MarkFeedbackSubmitted(seq) {
		return c.JSON(http.StatusConflict, FeedbackResponse{Success: false, Message: feedbackAlreadySent})
	}

	record := models.FeedbackRecord{
		Suggestion:       suggestion.ClothingSuggestions,
		Feedback:         req.Feedback,
		Role:             styleRequest.Role,
		StylePreferences: styleRequest.StylePreferences,
		Industry:         styleRequest.Industry,
		Rating:           *req.Rating,
	}
	result, err := controller.Recorder.RecordFeedback(c.Request().Context(), tasks.ImproveSuggestionsPayload{
		SessionID: session.ID,
		RequestID: seq,
		Record:    record,
	})
	if err != nil || result == nil || !result.Success {
		session.ReopenFeedback(seq)
		metrics.FeedbackSubmissions.WithLabelValues(record.Rating.String(), "failed").Inc()
		if err == nil {
			err = fmt.Errorf("feedback recorder reported failure")
		}
		controller.Logger.Error("feedback submission failed", zap.String("session", session.ID), zap.Error(err))
		sentry.CaptureException(err)
		return c.JSON(http.StatusBadGateway, FeedbackResponse{Success: false, Message: feedbackFailedMessage})
	}

	metrics.FeedbackSubmissions.WithLabelValues(record.Rating.String(), "submitted").Inc()
	return c.JSON(http.StatusOK, FeedbackResponse{Success: true, Title: feedbackSubmittedTitle, Message: feedbackSubmittedMessage})
}
