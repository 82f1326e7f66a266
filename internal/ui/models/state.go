package models

import (
	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/Cyclone1070/warden/internal/workflow/gate"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// Role tags a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleError     Role = "error"
	RoleInfo      Role = "info"
)

// Message is one entry in the transcript.
type Message struct {
	Role    Role
	Content string
	Display tool.Display // tool results only
	IsError bool
}

// Status phases.
const (
	PhaseReady     = "ready"
	PhaseThinking  = "thinking"
	PhaseExecuting = "executing"
	PhaseApproval  = "approval"
	PhaseDone      = "done"
	PhaseError     = "error"
)

// State is everything the views render.
type State struct {
	Width  int
	Height int

	Input    textinput.Model
	Viewport viewport.Model
	Spinner  spinner.Model

	Messages []Message

	// Busy is true while a turn is running.
	Busy bool
	// Pending is the call awaiting confirmation, if any.
	Pending *gate.Request

	StatusPhase   string
	StatusMessage string
	CurrentModel  string
}
