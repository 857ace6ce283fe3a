package services

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"
)

// The genai schema is sent with the request, the JSON schema checks what comes back.

var suggestionResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"clothingSuggestions": {
			Type:        genai.TypeString,
			Description: "Clothing suggestions for the headshot, one item per line.",
		},
		"reasoning": {
			Type:        genai.TypeString,
			Description: "Reasoning behind the clothing suggestions.",
		},
	},
	Required: []string{"clothingSuggestions", "reasoning"},
}

const suggestionJSONSchema = `{
	"type": "object",
	"properties": {
		"clothingSuggestions": {"type": "string"},
		"reasoning": {"type": "string"}
	},
	"required": ["clothingSuggestions", "reasoning"]
}`

var improvedResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"improvedSuggestions": {
			Type:        genai.TypeString,
			Description: "Revised clothing suggestions, one item per line.",
		},
		"reasoning": {
			Type:        genai.TypeString,
			Description: "How the feedback changed the suggestions.",
		},
	},
	Required: []string{"improvedSuggestions", "reasoning"},
}

const improvedJSONSchema = `{
	"type": "object",
	"properties": {
		"improvedSuggestions": {"type": "string"},
		"reasoning": {"type": "string"}
	},
	"required": ["improvedSuggestions", "reasoning"]
}`

var (
	suggestionSchemaLoader = gojsonschema.NewStringLoader(suggestionJSONSchema)
	improvedSchemaLoader   = gojsonschema.NewStringLoader(improvedJSONSchema)
)

func validateStructuredResponse(schema gojsonschema.JSONLoader, payload string) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %v", ErrInvalidResponse, errs)
	}
	return nil
}
