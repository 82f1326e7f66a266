package loop

import (
	"context"
	"iter"

	provider "github.com/Cyclone1070/warden/internal/provider/models"
	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/Cyclone1070/warden/internal/workflow"
	"github.com/Cyclone1070/warden/internal/workflow/gate"
)

// backend streams one model round.
type backend interface {
	Stream(ctx context.Context, req provider.Request) iter.Seq2[*provider.Chunk, error]
}

// toolInvoker manages tool storage and execution.
type toolInvoker interface {
	// Declarations returns all tool schemas for the LLM.
	Declarations() []tool.Declaration

	// Invoke runs a tool call. Failures come back as error results, never as Go errors.
	Invoke(ctx context.Context, call provider.ToolCall) tool.Result

	// Describe returns a one-line summary of a call for display.
	Describe(call provider.ToolCall) string
}

// authorizer is the confirmation gate.
type authorizer interface {
	NeedsApproval(call provider.ToolCall) bool
	Authorize(ctx context.Context, call provider.ToolCall) (gate.Decision, error)
}

// Checkpointer persists conversation snapshots between rounds.
type Checkpointer interface {
	Save(ctx context.Context, snap workflow.Snapshot) error
}
