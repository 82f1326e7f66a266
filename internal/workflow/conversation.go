package workflow

import (
	"maps"
	"slices"
	"time"

	provider "github.com/Cyclone1070/warden/internal/provider/models"
)

// Snapshot is a read-only copy of a session's conversation.
type Snapshot struct {
	SessionID string             `json:"session_id"`
	Messages  []provider.Message `json:"messages"`
	SavedAt   time.Time          `json:"saved_at"`
}

// Conversation is the ordered history of a session. It is owned by one loop and is not safe for concurrent use.
type Conversation struct {
	messages []provider.Message
}

// NewConversation creates a conversation, optionally seeded from an earlier snapshot.
func NewConversation(history ...provider.Message) *Conversation {
	return &Conversation{messages: cloneMessages(history)}
}

// Append adds messages to the end of the history.
func (c *Conversation) Append(msgs ...provider.Message) {
	c.messages = append(c.messages, msgs...)
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Messages returns a deep copy of the history.
func (c *Conversation) Messages() []provider.Message {
	return cloneMessages(c.messages)
}

func cloneMessages(msgs []provider.Message) []provider.Message {
	if msgs == nil {
		return nil
	}
	out := make([]provider.Message, len(msgs))
	for i, m := range msgs {
		out[i] = m
		out[i].ToolResults = slices.Clone(m.ToolResults)
		if m.ToolCalls != nil {
			out[i].ToolCalls = make([]provider.ToolCall, len(m.ToolCalls))
			for j, tc := range m.ToolCalls {
				tc.Args = cloneArgs(tc.Args)
				out[i].ToolCalls[j] = tc
			}
		}
	}
	return out
}

func cloneArgs(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	out := maps.Clone(args)
	for k, v := range out {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneArgs(val)
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = cloneValue(item)
		}
		return items
	default:
		return v
	}
}
