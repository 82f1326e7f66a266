package tool

import (
	"context"
	"fmt"
)

// Type represents JSON Schema types.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Schema represents a JSON Schema for tool parameters.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Declaration declares a tool's function signature for the LLM.
type Declaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters,omitempty"`

	// ReadOnly tools never modify the workspace and skip confirmation.
	ReadOnly bool `json:"-"`
}

// Tool is a named capability the model can invoke.
type Tool interface {
	// Declaration returns the tool's schema for the LLM.
	Declaration() Declaration

	// Input returns a pointer to a fresh input struct (e.g. &ReadFileRequest{}).
	// Arguments are decoded into it using its json tags.
	Input() any

	// Execute runs the tool with the decoded input.
	// A non-nil error means the call failed; Output may still carry partial content.
	Execute(ctx context.Context, input any) (Output, error)
}

// Output is what a tool hands back on completion.
type Output struct {
	// Content is re-inserted into the conversation for the model.
	Content string

	// Display is for the human.
	Display Display
}

// PathTarget is implemented by inputs that name filesystem paths.
// Each returned path must be absolute and resolve inside the workspace root.
// After validation the invoker calls SetTargetPaths with the canonical paths,
// in the same order, so the tool never opens the raw string.
type PathTarget interface {
	TargetPaths() []string
	SetTargetPaths(paths []string)
}

// CommandLine is implemented by inputs that are run through a shell.
type CommandLine interface {
	CommandLine() string
}

// AllowScope is implemented by inputs that narrow a "proceed always" grant
// to a target, e.g. the command name for the shell tool.
type AllowScope interface {
	AllowScope() string
}

// DisplayKind tags a Display variant.
type DisplayKind string

const (
	DisplayText       DisplayKind = "text"
	DisplayDiff       DisplayKind = "diff"
	DisplayStructured DisplayKind = "structured"
)

// Display is implemented by all display types returned from tools.
// The UI switches on the concrete type.
type Display interface {
	Kind() DisplayKind
}

// TextDisplay is for simple text output (most tools).
type TextDisplay string

func (TextDisplay) Kind() DisplayKind { return DisplayText }

// DiffDisplay is for file modifications with unified diff content.
type DiffDisplay struct {
	Path         string
	Diff         string // Unified diff content
	AddedLines   int
	RemovedLines int
}

func (DiffDisplay) Kind() DisplayKind { return DisplayDiff }

// StructuredDisplay is for tabular or keyed results such as directory listings.
type StructuredDisplay struct {
	Title string
	Data  any
}

func (StructuredDisplay) Kind() DisplayKind { return DisplayStructured }

// Status is the outcome of a single tool call.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the normalized outcome of one tool call. It is never mutated after creation.
type Result struct {
	CallID       string
	Name         string
	Status       Status
	Display      Display
	ModelPayload string
	Err          *Error
}

// Success builds a successful result.
func Success(callID, name string, out Output) Result {
	display := out.Display
	if display == nil {
		display = TextDisplay(out.Content)
	}
	return Result{
		CallID:       callID,
		Name:         name,
		Status:       StatusSuccess,
		Display:      display,
		ModelPayload: out.Content,
	}
}

// Failure builds an error result. partial is appended to the model payload when non-empty.
func Failure(callID, name string, err *Error, partial string) Result {
	payload := fmt.Sprintf("Error [%s]: %s", err.Code, err.Message)
	if partial != "" {
		payload += "\n\n" + partial
	}
	return Result{
		CallID:       callID,
		Name:         name,
		Status:       StatusError,
		Display:      TextDisplay(err.Message),
		ModelPayload: payload,
		Err:          err,
	}
}

// Declined is the result reported when the user cancels a call.
func Declined(callID, name string) Result {
	return Failure(callID, name, &Error{
		Code:    CodeUserDeclined,
		Message: "The user declined to run this tool call. Do not retry it unless asked.",
	}, "")
}
