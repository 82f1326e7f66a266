package workflow

import (
	provider "github.com/Cyclone1070/warden/internal/provider/models"
	"github.com/Cyclone1070/warden/internal/tool"
)

// CodeMaxRounds is reported when a turn hits the round limit.
const CodeMaxRounds = "MAX_ROUNDS"

// Event is the interface for all workflow events.
// UI handles events via type switch.
type Event interface {
	isEvent()
}

// TextEvent is emitted for each text fragment the model streams.
type TextEvent struct {
	Text string
}

func (TextEvent) isEvent() {}

// ToolRequestedEvent is emitted when the model asks for a tool call, before confirmation.
type ToolRequestedEvent struct {
	Call        provider.ToolCall
	Description string // e.g. "read_file /ws/src/main.go"
}

func (ToolRequestedEvent) isEvent() {}

// ApprovalRequiredEvent marks that the turn is suspended waiting for the user.
type ApprovalRequiredEvent struct {
	Call        provider.ToolCall
	Description string
}

func (ApprovalRequiredEvent) isEvent() {}

// ToolResultEvent carries the outcome of one tool call.
type ToolResultEvent struct {
	Result tool.Result
}

func (ToolResultEvent) isEvent() {}

// ErrorEvent ends a turn that could not complete. No DoneEvent follows it.
type ErrorEvent struct {
	// Code is BACKEND_RATE_LIMITED, BACKEND_REQUEST_FAILED or MAX_ROUNDS.
	Code string
	Err  error
}

func (ErrorEvent) isEvent() {}

// CancelledEvent ends a turn whose context was cancelled.
type CancelledEvent struct{}

func (CancelledEvent) isEvent() {}

// DoneEvent is emitted when the model finishes a round without tool calls.
type DoneEvent struct{}

func (DoneEvent) isEvent() {}
