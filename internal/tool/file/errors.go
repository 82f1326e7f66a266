package file

import (
	"errors"
	"fmt"
)

// -- Sentinels --

var (
	ErrBinaryFile               = errors.New("file is binary")
	ErrFileTooLarge             = errors.New("file too large")
	ErrIsDirectory              = errors.New("path is a directory")
	ErrFileMissing              = errors.New("file does not exist")
	ErrSnippetNotFound          = errors.New("snippet not found")
	ErrReplacementCountMismatch = errors.New("replacement count mismatch")
	ErrInvalidRange             = errors.New("offset and limit must be >= 0")
)

// -- Typed errors --

// StatError wraps a failed stat on a tool target.
type StatError struct {
	Path  string
	Cause error
}

func (e *StatError) Error() string {
	return fmt.Sprintf("failed to stat %s: %v", e.Path, e.Cause)
}
func (e *StatError) Unwrap() error { return e.Cause }

// ReadError wraps a failed read.
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Cause)
}
func (e *ReadError) Unwrap() error { return e.Cause }

// CountMismatchError reports an edit whose snippet matched a different number of times than expected.
type CountMismatchError struct {
	Path     string
	Expected int
	Found    int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("replacement count mismatch in %s: expected %d, found %d", e.Path, e.Expected, e.Found)
}
func (e *CountMismatchError) Unwrap() error { return ErrReplacementCountMismatch }
