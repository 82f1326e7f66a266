package workflow

import (
	"testing"

	provider "github.com/Cyclone1070/warden/internal/provider/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversation_MessagesIsDeepCopy(t *testing.T) {
	c := NewConversation()
	c.Append(
		provider.Message{Role: provider.RoleUser, Content: "hi"},
		provider.Message{Role: provider.RoleModel, ToolCalls: []provider.ToolCall{{
			ID:   "c1",
			Name: "run_shell",
			Args: map[string]any{"command": "ls", "env": map[string]any{"A": "1"}, "list": []any{"x"}},
		}}},
	)

	msgs := c.Messages()
	msgs[0].Content = "changed"
	msgs[1].ToolCalls[0].Args["command"] = "rm"
	msgs[1].ToolCalls[0].Args["env"].(map[string]any)["A"] = "2"
	msgs[1].ToolCalls[0].Args["list"].([]any)[0] = "y"

	again := c.Messages()
	require.Len(t, again, 2)
	assert.Equal(t, "hi", again[0].Content)
	args := again[1].ToolCalls[0].Args
	assert.Equal(t, "ls", args["command"])
	assert.Equal(t, "1", args["env"].(map[string]any)["A"])
	assert.Equal(t, "x", args["list"].([]any)[0])
}

func TestConversation_SeededHistory(t *testing.T) {
	history := []provider.Message{{Role: provider.RoleUser, Content: "earlier"}}
	c := NewConversation(history...)
	history[0].Content = "mutated"

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "earlier", c.Messages()[0].Content)
}

func TestConversation_Empty(t *testing.T) {
	c := NewConversation()
	assert.Zero(t, c.Len())
	assert.Nil(t, c.Messages())
}
