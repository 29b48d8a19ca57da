package platform

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned once the 429 retry budget is exhausted.
var ErrRateLimited = errors.New("rate limit retries exhausted")

// APIError is a non-2xx platform response outside the retry policy.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("platform API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("platform API returned status %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is an APIError with a 404 status.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
