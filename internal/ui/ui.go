package ui

import (
	"context"
	"iter"

	"github.com/Cyclone1070/warden/internal/ui/services"
	"github.com/Cyclone1070/warden/internal/workflow"
	"github.com/Cyclone1070/warden/internal/workflow/gate"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// turnRunner runs one user turn and streams its events.
type turnRunner interface {
	RunTurn(ctx context.Context, prompt string) iter.Seq[workflow.Event]
}

// SpinnerFactory creates a new spinner
type SpinnerFactory func() spinner.Model

// Options configures the terminal UI.
type Options struct {
	// Model is shown in the status bar.
	Model    string
	Renderer services.MarkdownRenderer
	Spinner  SpinnerFactory
}

// UI is the Bubble Tea front end. It also answers confirmation requests from the gate.
type UI struct {
	opts      Options
	approvals chan approvalRequest
}

type approvalRequest struct {
	req  gate.Request
	resp chan<- gate.Decision
}

// New creates a UI. Run starts it.
func New(opts Options) *UI {
	if opts.Spinner == nil {
		opts.Spinner = func() spinner.Model {
			return spinner.New(spinner.WithSpinner(spinner.Dot))
		}
	}
	return &UI{
		opts:      opts,
		approvals: make(chan approvalRequest),
	}
}

// Run blocks until the user quits or ctx is done.
func (u *UI) Run(ctx context.Context, runner turnRunner) error {
	model := newBubbleTeaModel(ctx, runner, u.approvals, u.opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if ctx.Err() != nil {
		// Interrupted from outside.
		return nil
	}
	return err
}

// RequestApproval shows req to the user and waits for a decision.
func (u *UI) RequestApproval(ctx context.Context, req gate.Request) (gate.Decision, error) {
	resp := make(chan gate.Decision, 1)
	select {
	case <-ctx.Done():
		return gate.Cancel, ctx.Err()
	case u.approvals <- approvalRequest{req: req, resp: resp}:
	}

	select {
	case <-ctx.Done():
		return gate.Cancel, ctx.Err()
	case decision := <-resp:
		return decision, nil
	}
}
