package models

import (
	"github.com/go-playground/validator"
)

// Rating is the thumbs up / thumbs down score attached to feedback.
type Rating int

const (
	RatingThumbsDown Rating = 1
	RatingThumbsUp   Rating = 5
)

func (r Rating) Valid() bool {
	return r == RatingThumbsDown || r == RatingThumbsUp
}

func (r Rating) String() string {
	switch r {
	case RatingThumbsUp:
		return "thumbs_up"
	case RatingThumbsDown:
		return "thumbs_down"
	default:
		return "invalid"
	}
}

// ValidateRating is registered as the "rating" validator tag.
func ValidateRating(fl validator.FieldLevel) bool {
	return Rating(fl.Field().Int()).Valid()
}
