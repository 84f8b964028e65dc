package scraper

import (
	"errors"
	"fmt"
)

// ErrNoSubjectsFound is returned when the subject list page yields no codes.
// The cause may be a wrong term, an empty term, or a layout change upstream.
var ErrNoSubjectsFound = errors.New("no subjects found; verify the term/year or endpoint availability")

// NetworkError wraps a transport-level failure (refused connection, DNS, timeout)
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("failed to reach %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a response body cannot be read or parsed as HTML
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse registration page: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StatusError reports an unexpected HTTP status from the course search endpoint
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d when fetching %s", e.StatusCode, e.URL)
}
