package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInternalError = errors.New("internal server error")
)

// Sync errors
var (
	ErrUnknownPlatform    = errors.New("unknown platform")
	ErrSyncAlreadyRunning = errors.New("sync already running for this platform")
	ErrSyncStateNotFound  = errors.New("sync state not found")
	ErrJobNotFound        = errors.New("job not found")
)

// Upstream errors
var (
	// ErrRateLimited surfaces only after the retry budget for HTTP 429
	// responses is exhausted.
	ErrRateLimited     = errors.New("rate limited by upstream")
	ErrUpstreamFailure = errors.New("upstream request failed")
	ErrTokenAcquire    = errors.New("failed to acquire access token")
)

// Meeting and transcript errors
var (
	ErrMeetingNotFound   = errors.New("meeting not found")
	ErrTranscriptMissing = errors.New("meeting has no transcript text")
	ErrMediaNotFound     = errors.New("media file not found")
)

// Mining errors
var (
	ErrProfileNotFound          = errors.New("mining profile not found")
	ErrContentTypeNotConfigured = errors.New("content type not configured on profile")
	ErrStoryNotFound            = errors.New("story not found")
	ErrContentNotFound          = errors.New("generated content not found")
	// ErrEmptyModelOutput is a hard failure and is never retried.
	ErrEmptyModelOutput = errors.New("model returned no usable output")
	ErrTemplateRender   = errors.New("prompt template render failed")
)
