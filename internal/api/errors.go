package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNoToken is returned before any network activity when no access token is available.
	ErrNoToken = errors.New("no access token configured")
	// ErrMalformedResponse is returned when a 2xx response body is not JSON.
	ErrMalformedResponse = errors.New("malformed search response")
	// ErrInvalidScope is returned for a scope other than all, todos or notes.
	ErrInvalidScope = errors.New("invalid search scope")
)

// StatusError is a non-2xx answer from the backend
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("search endpoint returned status %d", e.Code)
	}
	return fmt.Sprintf("search endpoint returned status %d: %s", e.Code, e.Message)
}
