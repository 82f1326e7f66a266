package checkpoint

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("checkpoint not found")
	ErrInvalidSessionID = errors.New("invalid session id")
)

// CorruptError is returned when a checkpoint file cannot be decoded.
type CorruptError struct {
	Path  string
	Cause error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt checkpoint %s: %v", e.Path, e.Cause)
}
func (e *CorruptError) Unwrap() error { return e.Cause }
