package loop

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	provider "github.com/Cyclone1070/warden/internal/provider/models"
	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/Cyclone1070/warden/internal/workflow"
	"github.com/Cyclone1070/warden/internal/workflow/gate"
)

const defaultMaxRounds = 25

// Options configures a Loop.
type Options struct {
	SessionID         string
	MaxRounds         int
	SystemInstruction string

	// History seeds the conversation, e.g. from a checkpoint.
	History []provider.Message

	// Checkpointer is optional.
	Checkpointer Checkpointer
	Logger       *slog.Logger
}

// Loop drives the turns of one session. RunTurn must not be called concurrently.
type Loop struct {
	sessionID         string
	backend           backend
	tools             toolInvoker
	gate              authorizer
	checkpointer      Checkpointer
	conversation      *workflow.Conversation
	maxRounds         int
	systemInstruction string
	logger            *slog.Logger
}

// NewLoop creates a Loop for one session.
func NewLoop(b backend, tools toolInvoker, g authorizer, opts Options) *Loop {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	maxRounds := opts.MaxRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxRounds
	}
	return &Loop{
		sessionID:         opts.SessionID,
		backend:           b,
		tools:             tools,
		gate:              g,
		checkpointer:      opts.Checkpointer,
		conversation:      workflow.NewConversation(opts.History...),
		maxRounds:         maxRounds,
		systemInstruction: opts.SystemInstruction,
		logger:            logger.With("session_id", opts.SessionID),
	}
}

// Snapshot returns a deep copy of the conversation.
func (l *Loop) Snapshot() workflow.Snapshot {
	return workflow.Snapshot{
		SessionID: l.sessionID,
		Messages:  l.conversation.Messages(),
		SavedAt:   time.Now(),
	}
}

// RunTurn appends prompt and runs rounds until the model stops calling tools.
//
// The sequence ends with exactly one of DoneEvent, ErrorEvent or CancelledEvent,
// unless the consumer stops ranging first.
func (l *Loop) RunTurn(ctx context.Context, prompt string) iter.Seq[workflow.Event] {
	return func(yield func(workflow.Event) bool) {
		l.conversation.Append(provider.Message{Role: provider.RoleUser, Content: prompt})

		for round := 1; round <= l.maxRounds; round++ {
			if ctx.Err() != nil {
				l.cancelled(ctx, yield)
				return
			}

			l.logger.Info("round started", "round", round)
			calls, ok := l.streamRound(ctx, yield)
			if !ok {
				return
			}

			if len(calls) == 0 {
				l.logger.Info("turn finished", "round", round)
				l.save(ctx)
				yield(workflow.DoneEvent{})
				return
			}

			if !l.runCalls(ctx, calls, yield) {
				return
			}
			l.logger.Info("round finished", "round", round, "tool_calls", len(calls))
			l.save(ctx)
		}

		l.logger.Warn("turn stopped at round limit", "max_rounds", l.maxRounds)
		yield(workflow.ErrorEvent{
			Code: workflow.CodeMaxRounds,
			Err:  fmt.Errorf("%w (%d)", ErrMaxRounds, l.maxRounds),
		})
	}
}

// streamRound reads one model response, emitting text as it arrives, and
// appends the model turn. ok is false when the turn has ended.
func (l *Loop) streamRound(ctx context.Context, yield func(workflow.Event) bool) (calls []provider.ToolCall, ok bool) {
	req := provider.Request{
		Messages:          l.conversation.Messages(),
		Tools:             l.tools.Declarations(),
		SystemInstruction: l.systemInstruction,
	}

	var text strings.Builder
	var streamErr error
	for chunk, err := range l.backend.Stream(ctx, req) {
		if err != nil {
			streamErr = err
			break
		}
		calls = append(calls, chunk.ToolCalls...)
		if chunk.Text == "" {
			continue
		}
		text.WriteString(chunk.Text)
		if !yield(workflow.TextEvent{Text: chunk.Text}) {
			l.appendText(text.String())
			return nil, false
		}
	}

	if streamErr != nil {
		// Tool calls from a broken stream are dropped: they would have no results.
		l.appendText(text.String())
		if ctx.Err() != nil {
			l.cancelled(ctx, yield)
			return nil, false
		}
		code := provider.Class(streamErr)
		l.logger.Error("backend request failed", "code", code, "error", streamErr)
		yield(workflow.ErrorEvent{Code: code, Err: streamErr})
		return nil, false
	}

	l.conversation.Append(provider.Message{
		Role:      provider.RoleModel,
		Content:   text.String(),
		ToolCalls: calls,
	})
	return calls, true
}

// runCalls executes calls in order. Each call ends with a result turn, so the
// history stays valid even when the turn is interrupted part way.
func (l *Loop) runCalls(ctx context.Context, calls []provider.ToolCall, yield func(workflow.Event) bool) bool {
	for i, call := range calls {
		if ctx.Err() != nil {
			l.cancelRemaining(calls[i:])
			l.cancelled(ctx, yield)
			return false
		}

		desc := l.tools.Describe(call)
		if !yield(workflow.ToolRequestedEvent{Call: call, Description: desc}) {
			l.cancelRemaining(calls[i:])
			return false
		}

		if l.gate.NeedsApproval(call) {
			if !yield(workflow.ApprovalRequiredEvent{Call: call, Description: desc}) {
				l.cancelRemaining(calls[i:])
				return false
			}
		}

		result := l.authorizeAndInvoke(ctx, call)
		if result == nil {
			l.cancelRemaining(calls[i:])
			l.cancelled(ctx, yield)
			return false
		}

		l.appendResult(*result)
		if !yield(workflow.ToolResultEvent{Result: *result}) {
			l.cancelRemaining(calls[i+1:])
			return false
		}
	}
	return true
}

// authorizeAndInvoke returns nil when ctx was cancelled while waiting for confirmation.
func (l *Loop) authorizeAndInvoke(ctx context.Context, call provider.ToolCall) *tool.Result {
	decision, err := l.gate.Authorize(ctx, call)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		l.logger.Warn("confirmation failed, declining call", "tool", call.Name, "error", err)
		result := tool.Declined(call.ID, call.Name)
		return &result
	}

	if decision == gate.Cancel {
		result := tool.Declined(call.ID, call.Name)
		return &result
	}

	result := l.tools.Invoke(ctx, call)
	return &result
}

func (l *Loop) appendResult(result tool.Result) {
	l.conversation.Append(provider.Message{
		Role: provider.RoleTool,
		ToolResults: []provider.ToolResult{{
			CallID:  result.CallID,
			Name:    result.Name,
			Content: result.ModelPayload,
			IsError: result.Status == tool.StatusError,
		}},
	})
}

func (l *Loop) appendText(text string) {
	if text == "" {
		return
	}
	l.conversation.Append(provider.Message{Role: provider.RoleModel, Content: text})
}

func (l *Loop) cancelRemaining(calls []provider.ToolCall) {
	for _, call := range calls {
		l.appendResult(tool.Failure(call.ID, call.Name, tool.NewError(tool.CodeExecutionFailure, cancelledMessage, nil), ""))
	}
}

func (l *Loop) cancelled(ctx context.Context, yield func(workflow.Event) bool) {
	l.logger.Info("turn cancelled")
	l.save(ctx)
	yield(workflow.CancelledEvent{})
}

func (l *Loop) save(ctx context.Context) {
	if l.checkpointer == nil {
		return
	}
	if err := l.checkpointer.Save(context.WithoutCancel(ctx), l.Snapshot()); err != nil {
		l.logger.Warn("failed to save checkpoint", "error", err)
	}
}
