package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited by upstream")
	ErrUpstreamDown = errors.New("upstream unavailable")
	ErrBreakerOpen  = errors.New("circuit breaker open")
)

// HTTPError represents a non-2xx response from the hosting API.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func newHTTPError(status int, url string, body []byte) *HTTPError {
	const maxBody = 1024
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	return &HTTPError{StatusCode: status, URL: url, Body: string(body)}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}

// IsNotFound returns true if the error represents a 404 response.
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Unwrap maps the status onto the package's sentinel errors.
func (e *HTTPError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.StatusCode >= 500:
		return ErrUpstreamDown
	}
	return nil
}

// StatusCode extracts the HTTP status carried by err, or 0 if it carries none.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
