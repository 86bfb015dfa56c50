package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRequestFailed matches every network or HTTP failure
	ErrRequestFailed = errors.New("request failed")

	// ErrUnauthorized matches a 401 response
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound matches a 404 response
	ErrNotFound = errors.New("not found")
)

// HTTPError is a non-2xx response from the backend
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is lets callers match on ErrRequestFailed, ErrUnauthorized and ErrNotFound
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrRequestFailed:
		return true
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// NetworkError is a transport failure or timeout: no response was received
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is matches ErrRequestFailed
func (e *NetworkError) Is(target error) bool {
	return target == ErrRequestFailed
}
