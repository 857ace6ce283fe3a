package controllers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

var fieldMessages = map[string]map[string]string{
	"role": {
		"required": "Role is required.",
		"min":      "Role is required.",
		"max":      "Role must be at most 100 characters.",
	},
	"style_preferences": {
		"required": "Please describe your style preferences.",
		"min":      "Please describe your style preferences.",
		"max":      "Style preferences must be at most 1000 characters.",
	},
	"industry": {
		"min": "Industry must be at least 2 characters.",
		"max": "Industry must be at most 100 characters.",
	},
	"rating": {
		"required": ratingRequiredMessage,
		"rating":   "Rating must be thumbs up or thumbs down.",
	},
	"feedback": {
		"max": "Feedback must be at most 2000 characters.",
	},
	"clothing_description": {
		"required": "Clothing description is required.",
		"max":      "Clothing description must be at most 500 characters.",
	},
}

func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range validationErrors {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := fieldMessages[field][fe.Tag()]; ok {
			out[field] = msg
			continue
		}
		out[field] = fmt.Sprintf("%s is invalid.", field)
	}
	return out
}

// validationResponse turns the error of c.Validate into the JSON error body.
func validationResponse(err error) map[string]interface{} {
	fields := map[string]string{}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if m, ok := httpErr.Message.(map[string]string); ok {
			fields = m
		}
	}
	if len(fields) == 0 {
		fields["_"] = err.Error()
	}
	return map[string]interface{}{
		"error":  invalidInputMessage,
		"fields": fields,
	}
}
