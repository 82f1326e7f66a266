package fs

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidOffset = errors.New("invalid offset")
	ErrIsDirectory   = errors.New("path is a directory")
)

// FileTooLargeError is returned when a whole-file read exceeds the size limit.
type FileTooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file %s is %d bytes, larger than the %d byte limit", e.Path, e.Size, e.Limit)
}

// WriteError reports which step of an atomic write failed.
type WriteError struct {
	Path  string
	Stage string // "create", "write", "sync", "close", "rename", "chmod"
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s (%s): %v", e.Path, e.Stage, e.Cause)
}
func (e *WriteError) Unwrap() error { return e.Cause }
