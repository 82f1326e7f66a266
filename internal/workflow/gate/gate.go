package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	provider "github.com/Cyclone1070/warden/internal/provider/models"
)

// Decision is the user's answer to a confirmation request.
type Decision string

const (
	ProceedOnce   Decision = "proceed_once"
	ProceedAlways Decision = "proceed_always"
	Cancel        Decision = "cancel"
)

// ErrInvalidDecision is returned when an approver answers with an unknown decision.
var ErrInvalidDecision = errors.New("invalid confirmation decision")

// Request is what the user sees when asked to confirm a call.
type Request struct {
	CallID string
	Name   string
	Args   map[string]any
	Detail string
}

// Approver asks the user to confirm a call. Implementations must return when ctx is done.
type Approver interface {
	RequestApproval(ctx context.Context, req Request) (Decision, error)
}

// toolInspector answers questions about registered tools.
type toolInspector interface {
	Has(name string) bool
	IsReadOnly(name string) bool
	AllowKey(call provider.ToolCall) string
	Describe(call provider.ToolCall) string
}

// Policy holds the static allow and deny lists from config, by tool name.
type Policy struct {
	Allow []string
	Deny  []string
}

// Gate decides whether a tool call may run, asking the user when needed.
type Gate struct {
	tools    toolInspector
	approver Approver
	allow    *AllowList
	policy   Policy
	logger   *slog.Logger
}

// New creates a Gate. allow is the session's allow-list and may be shared with the UI.
func New(tools toolInspector, approver Approver, allow *AllowList, policy Policy, logger *slog.Logger) *Gate {
	if allow == nil {
		allow = NewAllowList()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gate{
		tools:    tools,
		approver: approver,
		allow:    allow,
		policy:   policy,
		logger:   logger,
	}
}

// NeedsApproval reports whether Authorize would ask the user about call.
func (g *Gate) NeedsApproval(call provider.ToolCall) bool {
	if slices.Contains(g.policy.Deny, call.Name) {
		return false
	}
	if slices.Contains(g.policy.Allow, call.Name) {
		return false
	}
	// Unregistered tools are rejected by the invoker without running anything.
	if !g.tools.Has(call.Name) {
		return false
	}
	if g.tools.IsReadOnly(call.Name) {
		return false
	}
	return !g.allow.Contains(g.tools.AllowKey(call))
}

// Authorize returns the decision for call, blocking on the approver when the
// call is not covered by policy, read-only status or the allow-list.
func (g *Gate) Authorize(ctx context.Context, call provider.ToolCall) (Decision, error) {
	logger := g.logger.With("tool", call.Name, "call_id", call.ID)

	if slices.Contains(g.policy.Deny, call.Name) {
		logger.Info("tool call denied by policy")
		return Cancel, nil
	}

	if !g.NeedsApproval(call) {
		logger.Debug("tool call auto-approved")
		return ProceedOnce, nil
	}

	if g.approver == nil {
		logger.Info("no approver configured, cancelling tool call")
		return Cancel, nil
	}

	decision, err := g.approver.RequestApproval(ctx, Request{
		CallID: call.ID,
		Name:   call.Name,
		Args:   call.Args,
		Detail: g.tools.Describe(call),
	})
	if err != nil {
		return Cancel, fmt.Errorf("failed to get user confirmation: %w", err)
	}

	switch decision {
	case ProceedOnce, Cancel:
	case ProceedAlways:
		g.allow.Add(g.tools.AllowKey(call))
	default:
		return Cancel, fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}

	logger.Info("tool call confirmation", "decision", decision)
	return decision, nil
}
