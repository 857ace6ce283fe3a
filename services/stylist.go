package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"headshotstyler/metrics"
	"headshotstyler/models"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// PlaceholderImageURL is shown for an item whose image could not be generated.
const PlaceholderImageURL = "https://placehold.co/400x400"

type ImprovedSuggestions struct {
	ImprovedSuggestions string `json:"improvedSuggestions"`
	Reasoning           string `json:"reasoning"`
}

type StylistConfig struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string

	// WhitenBackground post-processes generated images with WhitenBackground.
	WhitenBackground bool
}

type GoogleStylist struct {
	client     *genai.Client
	textModel  string
	imageModel string
	whiten     bool
	logger     *zap.Logger
	calls      CallLogRecorder
}

func NewGoogleStylist(ctx context.Context, cfg StylistConfig, logger *zap.Logger, calls CallLogRecorder) (*GoogleStylist, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if calls == nil {
		calls = NopCallLogRecorder{}
	}
	return &GoogleStylist{
		client:     client,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		whiten:     cfg.WhitenBackground,
		logger:     logger,
		calls:      calls,
	}, nil
}

func buildSuggestionPrompt(req models.StyleRequest) string {
	var sb strings.Builder
	sb.WriteString("You are a professional stylist helping users choose the best clothing for their headshots.\n\n")
	sb.WriteString("Based on the user's role and personal style preferences, suggest clothing styles appropriate for a professional headshot. Provide reasoning for your suggestions.\n\n")
	sb.WriteString("Role: ")
	sb.WriteString(req.Role)
	sb.WriteString("\n")
	if req.Industry != nil && strings.TrimSpace(*req.Industry) != "" {
		sb.WriteString("Industry: ")
		sb.WriteString(strings.TrimSpace(*req.Industry))
		sb.WriteString("\n")
	}
	sb.WriteString("Style Preferences: ")
	sb.WriteString(req.StylePreferences)
	sb.WriteString("\n\n")
	sb.WriteString("Respond with clothing suggestions and reasoning. List each clothing item on its own line.")
	return sb.String()
}

func buildImagePrompt(description string) string {
	return "Generate a high-quality, photorealistic image of the following clothing item, suitable for a professional headshot style board. " +
		"The item should be displayed on a mannequin or as a flat lay on a neutral background: " + description
}

func buildFeedbackPrompt(record models.FeedbackRecord) string {
	var sb strings.Builder
	sb.WriteString("You are a professional stylist. A user rated your headshot clothing suggestions and left feedback. ")
	sb.WriteString("Revise the suggestions so they better match the user's expectations.\n\n")
	fmt.Fprintf(&sb, "Role: %s\n", record.Role)
	if record.Industry != nil && *record.Industry != "" {
		fmt.Fprintf(&sb, "Industry: %s\n", *record.Industry)
	}
	fmt.Fprintf(&sb, "Style Preferences: %s\n", record.StylePreferences)
	fmt.Fprintf(&sb, "Original Suggestions:\n%s\n", record.Suggestion)
	fmt.Fprintf(&sb, "Rating: %d out of 5\n", record.Rating)
	if strings.TrimSpace(record.Feedback) != "" {
		fmt.Fprintf(&sb, "Feedback: %s\n", record.Feedback)
	}
	sb.WriteString("\nRespond with improved suggestions, one item per line, and the reasoning.")
	return sb.String()
}

func (s *GoogleStylist) SuggestClothingStyles(ctx context.Context, req models.StyleRequest) (*models.StyleSuggestion, error) {
	if strings.TrimSpace(req.Role) == "" || strings.TrimSpace(req.StylePreferences) == "" {
		return nil, &GenerationError{Op: models.OperationSuggestStyles, Model: s.textModel, Err: ErrEmptyInput}
	}
	start := time.Now()
	result, err := s.client.Models.GenerateContent(ctx, s.textModel, genai.Text(buildSuggestionPrompt(req)), &genai.GenerateContentConfig{
		Temperature:      floatPointer(0.7),
		ResponseMIMEType: "application/json",
		ResponseSchema:   suggestionResponseSchema,
	})
	usage := usageFromResponse(result)
	if err == nil {
		err = checkBlocked(result)
	}

	var suggestion models.StyleSuggestion
	if err == nil {
		payload := firstCandidateText(result)
		if err = validateStructuredResponse(suggestionSchemaLoader, payload); err == nil {
			if jsonErr := json.Unmarshal([]byte(payload), &suggestion); jsonErr != nil {
				err = fmt.Errorf("%w: %v", ErrInvalidResponse, jsonErr)
			}
		}
	}
	if err = s.finish(ctx, models.OperationSuggestStyles, s.textModel, start, usage, 0, err); err != nil {
		return nil, err
	}
	return &suggestion, nil
}

func (s *GoogleStylist) GenerateClothingImage(ctx context.Context, description string) (*models.GeneratedImage, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, &GenerationError{Op: models.OperationGenerateImage, Model: s.imageModel, Err: ErrEmptyInput}
	}
	start := time.Now()
	result, err := s.client.Models.GenerateContent(ctx, s.imageModel, genai.Text(buildImagePrompt(description)), &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	usage := usageFromResponse(result)
	if err == nil {
		err = checkBlocked(result)
	}

	var images []*genai.Blob
	if err == nil {
		images = GetAllInlineImages(result)
		if len(images) == 0 {
			err = ErrNoImage
		}
	}
	if err = s.finish(ctx, models.OperationGenerateImage, s.imageModel, start, usage, len(images), err); err != nil {
		return nil, err
	}
	data, mimeType := images[0].Data, images[0].MIMEType
	if s.whiten {
		cleaned, err := WhitenBackground(data, DefaultBackgroundOptions)
		if err != nil {
			s.logger.Debug("keeping image background as generated", zap.Error(err))
		} else {
			data, mimeType = cleaned, "image/png"
		}
	}
	return &models.GeneratedImage{
		ImageURL: ImageDataURI(mimeType, data),
		MIMEType: mimeType,
	}, nil
}

func (s *GoogleStylist) ImproveSuggestionsWithFeedback(ctx context.Context, record models.FeedbackRecord) (*ImprovedSuggestions, error) {
	if !record.Rating.Valid() {
		return nil, &GenerationError{
			Op:    models.OperationImproveWithFeedback,
			Model: s.textModel,
			Err:   fmt.Errorf("invalid rating %d", record.Rating),
		}
	}
	start := time.Now()
	result, err := s.client.Models.GenerateContent(ctx, s.textModel, genai.Text(buildFeedbackPrompt(record)), &genai.GenerateContentConfig{
		Temperature:      floatPointer(0.7),
		ResponseMIMEType: "application/json",
		ResponseSchema:   improvedResponseSchema,
	})
	usage := usageFromResponse(result)
	if err == nil {
		err = checkBlocked(result)
	}

	var improved ImprovedSuggestions
	if err == nil {
		payload := firstCandidateText(result)
		if err = validateStructuredResponse(improvedSchemaLoader, payload); err == nil {
			if jsonErr := json.Unmarshal([]byte(payload), &improved); jsonErr != nil {
				err = fmt.Errorf("%w: %v", ErrInvalidResponse, jsonErr)
			}
		}
	}
	if err = s.finish(ctx, models.OperationImproveWithFeedback, s.textModel, start, usage, 0, err); err != nil {
		return nil, err
	}
	return &improved, nil
}

// finish logs, counts and records one provider call. A non-nil err comes back as *GenerationError.
func (s *GoogleStylist) finish(ctx context.Context, op, model string, start time.Time, usage LLMUsage, imageCount int, err error) error {
	duration := time.Since(start)
	status := models.CallStatusCompleted
	if err != nil {
		status = models.CallStatusFailed
	}
	metrics.ProviderCalls.WithLabelValues(op, status).Inc()
	metrics.ProviderCallDuration.WithLabelValues(op).Observe(duration.Seconds())

	entry := &models.AICallLog{
		Operation:             op,
		LLMModel:              model,
		Status:                status,
		DurationMs:            duration.Milliseconds(),
		LLMInputTokenCount:    usage.InputTokenCount,
		LLMOutputTokenCount:   usage.OutputTokenCount,
		LLMThoughtsTokenCount: usage.ThoughtsTokenCount,
		LLMTotalTokenCount:    usage.TotalTokenCount,
		ImageCount:            imageCount,
	}
	fields := []zap.Field{
		zap.String("operation", op),
		zap.String("model", model),
		zap.Duration("duration", duration),
		zap.Int32("input_tokens", usage.InputTokenCount),
		zap.Int32("output_tokens", usage.OutputTokenCount),
		zap.Int32("thoughts_tokens", usage.ThoughtsTokenCount),
		zap.Int32("total_tokens", usage.TotalTokenCount),
	}

	if err != nil {
		msg := err.Error()
		entry.ErrorMessage = &msg
		s.logger.Warn("provider call failed", append(fields, zap.Error(err))...)
	} else {
		s.logger.Info("provider call completed", append(fields, zap.Int("images", imageCount))...)
	}

	// a failed call log write never fails the provider call
	if recErr := s.calls.Record(context.WithoutCancel(ctx), entry); recErr != nil {
		s.logger.Error("failed to record provider call", zap.String("operation", op), zap.Error(recErr))
		sentry.CaptureException(recErr)
	}

	if err != nil {
		return &GenerationError{Op: op, Model: model, Err: err}
	}
	return nil
}
