package directory

import (
	"errors"
	"fmt"
)

// -- Sentinels --

var (
	ErrFileMissing     = errors.New("file or path does not exist")
	ErrNotADirectory   = errors.New("not a directory")
	ErrPatternRequired = errors.New("pattern is required")
	ErrInvalidPattern  = errors.New("invalid pattern")
)

// -- Typed errors --

// StatError wraps a failed stat on the start directory.
type StatError struct {
	Path  string
	Cause error
}

func (e *StatError) Error() string {
	return fmt.Sprintf("failed to stat %s: %v", e.Path, e.Cause)
}
func (e *StatError) Unwrap() error { return e.Cause }

// ListDirError wraps a failed directory read during a walk.
type ListDirError struct {
	Path  string
	Cause error
}

func (e *ListDirError) Error() string {
	return fmt.Sprintf("failed to list %s: %v", e.Path, e.Cause)
}
func (e *ListDirError) Unwrap() error { return e.Cause }
