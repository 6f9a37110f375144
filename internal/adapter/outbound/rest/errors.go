package rest

import (
	"errors"
	"fmt"
)

// ErrRejected is returned (wrapped) for any non-2xx server response.
// Use errors.Is(err, ErrRejected) to distinguish a server rejection from
// a transport failure.
var ErrRejected = errors.New("rejected by server")

// APIError is a non-2xx response from the server. The client treats all
// rejection statuses uniformly; callers that care about the status code
// can read it here.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Body is the raw response body, if any.
	Body string
	// RequestID is the client-generated correlation ID of the request.
	RequestID string
}

// Error returns a human-readable description of the rejection.
func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrRejected).
func (e *APIError) Is(target error) bool {
	return target == ErrRejected
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not a
// server rejection.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
