package tool

import (
	"errors"
	"fmt"
)

// ErrorCode classifies why a tool call did not succeed.
type ErrorCode string

const (
	CodeUnknownTool      ErrorCode = "UNKNOWN_TOOL"
	CodeInvalidArguments ErrorCode = "INVALID_ARGUMENTS"
	CodePathEscape       ErrorCode = "PATH_ESCAPE"
	CodeUnsafeCommand    ErrorCode = "UNSAFE_COMMAND"
	CodeExecutionFailure ErrorCode = "TOOL_EXECUTION_FAILURE"
	CodeUserDeclined     ErrorCode = "USER_DECLINED"
)

// Error is a tool-level failure. It is recovered locally and reported to the model.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewError builds an *Error, using cause's text as the message when msg is empty.
func NewError(code ErrorCode, msg string, cause error) *Error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{Code: code, Message: msg, Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// -- Schema validation --

// ArgumentError reports a single argument that does not match the schema.
type ArgumentError struct {
	Path   string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}
