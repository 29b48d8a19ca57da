package entities

import "errors"

// Domain errors
var (
	// Meeting errors
	ErrInvalidPlatform   = errors.New("invalid platform")
	ErrMissingExternalID = errors.New("missing external id")

	// Profile errors
	ErrInvalidUsage        = errors.New("invalid knowledge usage")
	ErrInvalidSentiment    = errors.New("invalid sentiment")
	ErrInvalidConfidence   = errors.New("confidence score must be within [0, 1]")
	ErrEmptyPromptTemplate = errors.New("prompt template is empty")

	// Content errors
	ErrInvalidContentStatus = errors.New("invalid content status")

	// Generic errors
	ErrInvalidRequest = errors.New("invalid request")
)
