package models

// StyleRequest is what the user submits from the style form.
type StyleRequest struct {
	Role             string  `json:"role"`
	StylePreferences string  `json:"style_preferences"`
	Industry         *string `json:"industry,omitempty"`
}

type StyleSuggestion struct {
	// newline separated list, one clothing item per line
	ClothingSuggestions string `json:"clothingSuggestions"`
	Reasoning           string `json:"reasoning"`
}

type GeneratedImage struct {
	// data:<mime>;base64,<payload>
	ImageURL string `json:"imageUrl"`
	MIMEType string `json:"mimeType"`
}

type FeedbackRecord struct {
	Suggestion       string  `json:"suggestion"`
	Feedback         string  `json:"feedback"`
	Role             string  `json:"role"`
	StylePreferences string  `json:"stylePreferences"`
	Industry         *string `json:"industry,omitempty"`
	Rating           Rating  `json:"rating"`
}

type FeedbackResult struct {
	Success bool `json:"success"`
}
