package services

import (
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

func floatPointer(f float32) *float32 {
	return &f
}

// LLMUsage mirrors the token accounting of a single GenerateContent call.
type LLMUsage struct {
	InputTokenCount    int32 `json:"input_token_count"`
	OutputTokenCount   int32 `json:"output_token_count"`
	ThoughtsTokenCount int32 `json:"thoughts_token_count"`
	TotalTokenCount    int32 `json:"total_token_count"`
}

func usageFromResponse(result *genai.GenerateContentResponse) LLMUsage {
	if result == nil || result.UsageMetadata == nil {
		return LLMUsage{}
	}
	return LLMUsage{
		InputTokenCount:    result.UsageMetadata.PromptTokenCount,
		OutputTokenCount:   result.UsageMetadata.CandidatesTokenCount,
		ThoughtsTokenCount: result.UsageMetadata.ThoughtsTokenCount,
		TotalTokenCount:    result.UsageMetadata.TotalTokenCount,
	}
}

// checkBlocked returns ErrContentBlocked when the prompt or any candidate was blocked.
func checkBlocked(result *genai.GenerateContentResponse) error {
	if result == nil {
		return fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return fmt.Errorf("%w: %s %s", ErrContentBlocked, result.PromptFeedback.BlockReason, result.PromptFeedback.BlockReasonMessage)
	}
	for _, cand := range result.Candidates {
		for _, rating := range cand.SafetyRatings {
			if rating.Blocked {
				return fmt.Errorf("%w: %s", ErrContentBlocked, rating.Category)
			}
		}
	}
	return nil
}

// GetAllInlineImages collects every inline image part across candidates.
func GetAllInlineImages(result *genai.GenerateContentResponse) []*genai.Blob {
	if result == nil {
		return nil
	}
	var images []*genai.Blob
	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			inline := part.InlineData
			if inline == nil || len(inline.Data) == 0 {
				continue
			}
			if strings.HasPrefix(inline.MIMEType, "image/") {
				images = append(images, inline)
			}
		}
	}
	return images
}

// firstCandidateText joins the non-thought text parts of the first candidate.
func firstCandidateText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Thought || part.Text == "" {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

func ImageDataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
