package services

import (
	"errors"
	"fmt"
)

var (
	ErrContentBlocked  = errors.New("content blocked by provider")
	ErrNoImage         = errors.New("image generation failed")
	ErrInvalidResponse = errors.New("provider returned an invalid response")
	ErrEmptyInput      = errors.New("input is empty")
)

// GenerationError wraps every failed provider call.
type GenerationError struct {
	Op    string
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsGenerationError reports whether err came from a provider call.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
