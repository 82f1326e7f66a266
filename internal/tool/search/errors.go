package search

import (
	"errors"
	"fmt"
)

var (
	ErrQueryRequired  = errors.New("query is required")
	ErrInvalidRange   = errors.New("offset and limit cannot be negative")
	ErrFileMissing    = errors.New("search path does not exist")
	ErrNotADirectory  = errors.New("search path is not a directory")
	ErrRipgrepMissing = errors.New("ripgrep (rg) is not installed")
)

// StatError is returned when the search path cannot be inspected.
type StatError struct {
	Path  string
	Cause error
}

func (e *StatError) Error() string {
	return fmt.Sprintf("failed to stat %s: %v", e.Path, e.Cause)
}

func (e *StatError) Unwrap() error { return e.Cause }

// CommandFailedError is returned when rg exits with status 2 or higher.
type CommandFailedError struct {
	Code   int
	Stderr string
}

func (e *CommandFailedError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("rg failed with exit code %d", e.Code)
	}
	return fmt.Sprintf("rg failed with exit code %d: %s", e.Code, e.Stderr)
}
