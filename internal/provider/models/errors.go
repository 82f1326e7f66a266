package models

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for provider failures that do not come from the API.
var (
	ErrNoCandidates     = errors.New("no candidates in response")
	ErrNoFallback       = errors.New("no fallback model configured")
	ErrEmptyModelName   = errors.New("model name is empty")
	ErrBackendExhausted = errors.New("primary and fallback models both failed")
)

// ErrorCode represents a provider error code.
type ErrorCode string

const (
	ErrorCodeContextLength  ErrorCode = "context_length_exceeded"
	ErrorCodeContentBlocked ErrorCode = "content_blocked"
	ErrorCodeRateLimit      ErrorCode = "rate_limit"
	ErrorCodeAuth           ErrorCode = "authentication_failed"
	ErrorCodeNetwork        ErrorCode = "network_error"
	ErrorCodeUnavailable    ErrorCode = "service_unavailable"
	ErrorCodeInvalidRequest ErrorCode = "invalid_request"
)

// Error classes reported to the caller of a turn.
const (
	ClassRateLimited   = "BACKEND_RATE_LIMITED"
	ClassRequestFailed = "BACKEND_REQUEST_FAILED"
)

// ProviderError wraps errors with additional context.
type ProviderError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Retryable  bool
	RetryAfter *time.Duration
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// IsRetryable returns true if the error is retryable.
func IsRetryable(err error) bool {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}
	return false
}

// GetRetryAfter returns the retry-after duration if present.
func GetRetryAfter(err error) *time.Duration {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.RetryAfter
	}
	return nil
}

// IsRateLimit reports whether err is an HTTP 429-equivalent signal.
func IsRateLimit(err error) bool {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Code == ErrorCodeRateLimit
	}
	return false
}

// Class maps a backend error onto the class reported to the caller of a turn.
func Class(err error) string {
	if IsRateLimit(err) {
		return ClassRateLimited
	}
	return ClassRequestFailed
}
