package models

const (
	OperationSuggestStyles       = "suggest_styles"
	OperationGenerateImage       = "generate_image"
	OperationImproveWithFeedback = "improve_with_feedback"
)

const (
	CallStatusCompleted = "completed"
	CallStatusFailed    = "failed"
)

// AICallLog keeps metadata of one provider call. Prompt and response text are never stored.
type AICallLog struct {
	JsonModel
	Operation             string  `gorm:"size:50;index" json:"operation"`
	LLMModel              string  `gorm:"size:100" json:"llm_model"`
	Status                string  `gorm:"size:20;index" json:"status"` // completed, failed
	DurationMs            int64   `json:"duration_ms"`
	LLMInputTokenCount    int32   `json:"llm_input_token_count"`
	LLMOutputTokenCount   int32   `json:"llm_output_token_count"`
	LLMThoughtsTokenCount int32   `json:"llm_thoughts_token_count"`
	LLMTotalTokenCount    int32   `json:"llm_total_token_count"`
	ImageCount            int     `json:"image_count"`
	ErrorMessage          *string `gorm:"type:text" json:"error_message"`
}

func (AICallLog) TableName() string {
	return "ai_call_logs"
}
