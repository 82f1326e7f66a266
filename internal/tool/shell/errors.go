package shell

import (
	"errors"
	"fmt"
	"time"
)

// -- Sentinels --

var (
	ErrEnvFileParse    = errors.New("invalid env file line")
	ErrNegativeTimeout = errors.New("timeout_seconds cannot be negative")
)

// -- Typed errors --

// TimeoutError is returned when a shell command exceeds its timeout.
type TimeoutError struct {
	Command  string
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %q timed out after %v", e.Command, e.Duration)
}

func (e *TimeoutError) Timeout() bool {
	return true
}

// ExitError is returned when a command runs to completion with a non-zero status.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with code %d", e.Command, e.Code)
}

// EnvFileReadError is returned when reading an env file fails.
type EnvFileReadError struct {
	Path  string
	Cause error
}

func (e *EnvFileReadError) Error() string {
	return fmt.Sprintf("failed to read env file %s: %v", e.Path, e.Cause)
}

func (e *EnvFileReadError) Unwrap() error {
	return e.Cause
}
