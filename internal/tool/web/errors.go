package web

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedScheme = errors.New("only http and https URLs can be fetched")
	ErrBinaryContent     = errors.New("response is binary")
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// ProxyError is returned when the configured proxy URL cannot be used.
type ProxyError struct {
	URL   string
	Cause error
}

func (e *ProxyError) Error() string {
	return fmt.Sprintf("invalid proxy %s: %v", e.URL, e.Cause)
}
func (e *ProxyError) Unwrap() error { return e.Cause }
