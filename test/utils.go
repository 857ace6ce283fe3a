package test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"headshotstyler/models"
	"headshotstyler/services"
	"headshotstyler/tasks"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {

	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func NewJSONRequestRaw(method string, target string, json string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(json))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func NewRefString(data string) *string {
	return &data
}

func RatingPointer(r models.Rating) *models.Rating {
	return &r
}

// StylistMock answers with canned suggestions. Descriptions listed in
// FailImages get an image generation error.
type StylistMock struct {
	Suggestion *models.StyleSuggestion
	SuggestErr error
	FailImages map[string]bool
	ImageGate  chan struct{}

	mu       sync.Mutex
	requests []models.StyleRequest
	images   []string
}

func (m *StylistMock) SuggestClothingStyles(ctx context.Context, req models.StyleRequest) (*models.StyleSuggestion, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.SuggestErr != nil {
		return nil, m.SuggestErr
	}
	if m.Suggestion != nil {
		s := *m.Suggestion
		return &s, nil
	}
	return &models.StyleSuggestion{
		ClothingSuggestions: "- Navy blazer\n- White oxford shirt\n- Charcoal trousers",
		Reasoning:           "Classic pieces read as competent and approachable.",
	}, nil
}

func (m *StylistMock) GenerateClothingImage(ctx context.Context, description string) (*models.GeneratedImage, error) {
	m.mu.Lock()
	m.images = append(m.images, description)
	m.mu.Unlock()
	if m.ImageGate != nil {
		select {
		case <-m.ImageGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.FailImages[description] {
		return nil, &services.GenerationError{Op: models.OperationGenerateImage, Model: "mock-image", Err: services.ErrNoImage}
	}
	return &models.GeneratedImage{ImageURL: "data:image/png;base64,aGVsbG8=", MIMEType: "image/png"}, nil
}

func (m *StylistMock) Requests() []models.StyleRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.StyleRequest(nil), m.requests...)
}

func (m *StylistMock) Images() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.images...)
}

type FeedbackRecorderMock struct {
	Err     error
	Result  *models.FeedbackResult
	mu      sync.Mutex
	records []tasks.ImproveSuggestionsPayload
}

func (m *FeedbackRecorderMock) RecordFeedback(ctx context.Context, payload tasks.ImproveSuggestionsPayload) (*models.FeedbackResult, error) {
	m.mu.Lock()
	m.records = append(m.records, payload)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result != nil {
		return m.Result, nil
	}
	return &models.FeedbackResult{Success: true}, nil
}

func (m *FeedbackRecorderMock) Records() []tasks.ImproveSuggestionsPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]tasks.ImproveSuggestionsPayload(nil), m.records...)
}
