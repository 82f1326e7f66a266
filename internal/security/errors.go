package security

import (
	"errors"
	"fmt"
)

// UnsafeCommandError is returned when a shell command line fails validation.
type UnsafeCommandError struct {
	Command string
	Reason  string
	Offset  int // byte offset of the offending token, -1 when not positional
}

func (e *UnsafeCommandError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("unsafe command: %s (at offset %d)", e.Reason, e.Offset)
	}
	return fmt.Sprintf("unsafe command: %s", e.Reason)
}

// PathEscapeError is returned when a path resolves outside the workspace root.
type PathEscapeError struct {
	Path     string
	Resolved string
	Root     string
}

func (e *PathEscapeError) Error() string {
	if e.Resolved != "" && e.Resolved != e.Path {
		return fmt.Sprintf("path %s resolves to %s, outside workspace root %s", e.Path, e.Resolved, e.Root)
	}
	return fmt.Sprintf("path %s is outside workspace root %s", e.Path, e.Root)
}

func (e *PathEscapeError) Unwrap() error { return ErrOutsideRoot }

// RootError is returned when the workspace root itself cannot be canonicalised.
type RootError struct {
	Root  string
	Cause error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("invalid workspace root %s: %v", e.Root, e.Cause)
}
func (e *RootError) Unwrap() error { return e.Cause }

var (
	ErrOutsideRoot   = errors.New("path is outside workspace root")
	ErrRelativePath  = errors.New("path must be absolute")
	ErrNotADirectory = errors.New("not a directory")
	ErrEmptyCommand  = errors.New("command is empty")

	ErrSymlinkLoop      = errors.New("too many levels of symbolic links")
	ErrUnresolvablePath = errors.New("path has .. below a missing directory")
)
