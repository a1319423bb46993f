package usecase

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrFeatureDisabled = errors.New("feature disabled")
)
