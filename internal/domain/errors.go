package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates unauthorized access
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSessionEnded indicates the session has already ended
	ErrSessionEnded = errors.New("session has ended")
	// ErrFeatureDisabled indicates the feature is turned off for this deployment
	ErrFeatureDisabled = errors.New("feature disabled")
)
