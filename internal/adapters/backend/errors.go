package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable is returned when a report endpoint cannot be read.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrNotFound is matched by a 404 answer for a single resource.
	ErrNotFound = errors.New("not found")
)

// StatusError reports a non-2xx answer from the backend.
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.Path, e.StatusCode)
}

// Unwrap lets callers match ErrUnavailable.
func (e *StatusError) Unwrap() error { return ErrUnavailable }

// Is matches ErrNotFound for 404 answers.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
