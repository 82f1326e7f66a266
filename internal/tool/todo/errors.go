package todo

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStatus    = errors.New("invalid status")
	ErrEmptyDescription = errors.New("description cannot be empty")
)

// ItemError points at the offending entry of a write.
type ItemError struct {
	Index int
	Cause error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("todos[%d]: %v", e.Index, e.Cause)
}

func (e *ItemError) Unwrap() error { return e.Cause }
