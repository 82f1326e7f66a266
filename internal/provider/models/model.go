package models

import (
	"github.com/Cyclone1070/warden/internal/tool"
)

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	RoleTool  Role = "tool"
)

// Message is a single turn in the conversation.
type Message struct {
	Role        Role         `json:"role"`
	Content     string       `json:"content,omitempty"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult is the model-visible outcome of a ToolCall.
type ToolResult struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// Request is one backend round: the conversation so far plus the tool catalog.
type Request struct {
	Messages []Message
	Tools    []tool.Declaration

	// SystemInstruction is prepended by the provider when non-empty.
	SystemInstruction string
}

// Chunk is one piece of a streamed response. A chunk may carry text, tool calls, or both.
type Chunk struct {
	Text      string
	ToolCalls []ToolCall

	// Model is the backend model that produced the chunk.
	Model string
}
