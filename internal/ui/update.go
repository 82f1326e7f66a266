package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/Cyclone1070/warden/internal/ui/models"
	"github.com/Cyclone1070/warden/internal/ui/services"
	"github.com/Cyclone1070/warden/internal/ui/views"
	"github.com/Cyclone1070/warden/internal/workflow"
	"github.com/Cyclone1070/warden/internal/workflow/gate"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const helpText = "Commands:\n- /clear - Clear the transcript\n- /help - Show this help\n- /quit - Exit\n\n" +
	"Esc or Ctrl+C cancels a running turn. Ctrl+C when idle exits."

// reservedRows is the space kept for input and status below the viewport.
const reservedRows = 5

// BubbleTeaModel implements tea.Model
type BubbleTeaModel struct {
	state models.State

	renderer services.MarkdownRenderer
	runner   turnRunner
	baseCtx  context.Context

	approvals <-chan approvalRequest
	// events carries turn events and the final turnFinishedMsg in order.
	events    chan tea.Msg

	pendingResp chan<- gate.Decision
	cancelTurn  context.CancelFunc
}

// Internal messages
type eventMsg struct{ event workflow.Event }
type turnFinishedMsg struct{}
type approvalRequestMsg approvalRequest

func newBubbleTeaModel(ctx context.Context, runner turnRunner, approvals <-chan approvalRequest, opts Options) BubbleTeaModel {
	ti := textinput.New()
	ti.Placeholder = "Ask something..."
	ti.Focus()

	return BubbleTeaModel{
		state: models.State{
			Input:        ti,
			Viewport:     viewport.New(80, 20),
			Spinner:      opts.Spinner(),
			Messages:     []models.Message{},
			StatusPhase:  models.PhaseReady,
			CurrentModel: opts.Model,
		},
		renderer:  opts.Renderer,
		runner:    runner,
		baseCtx:   ctx,
		approvals: approvals,
		events:    make(chan tea.Msg, 64),
	}
}

// Init initializes the model
func (m BubbleTeaModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.state.Spinner.Tick,
		listenForApprovals(m.approvals),
		listenForEvents(m.events),
	)
}

// View renders the UI
func (m BubbleTeaModel) View() string {
	return views.RenderRoot(m.state)
}

// Update handles messages
func (m BubbleTeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.state.Viewport.Width = msg.Width
		m.state.Viewport.Height = max(msg.Height-reservedRows, 1)
		m.state.Input.Width = max(msg.Width-6, 10)
		m.updateViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, cmd

	case approvalRequestMsg:
		req := msg.req
		m.state.Pending = &req
		m.pendingResp = msg.resp
		m.state.StatusPhase = models.PhaseApproval
		m.state.StatusMessage = "Waiting for confirmation"
		return m, listenForApprovals(m.approvals)

	case eventMsg:
		m.applyEvent(msg.event)
		return m, listenForEvents(m.events)

	case turnFinishedMsg:
		if m.cancelTurn != nil {
			m.cancelTurn()
			m.cancelTurn = nil
		}
		m.state.Busy = false
		m.state.Pending = nil
		m.pendingResp = nil
		return m, listenForEvents(m.events)
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

// applyEvent folds one workflow event into the transcript and status bar.
func (m *BubbleTeaModel) applyEvent(ev workflow.Event) {
	switch ev := ev.(type) {
	case workflow.TextEvent:
		n := len(m.state.Messages)
		if n > 0 && m.state.Messages[n-1].Role == models.RoleAssistant {
			m.state.Messages[n-1].Content += ev.Text
		} else {
			m.appendMessage(models.Message{Role: models.RoleAssistant, Content: ev.Text})
		}
		m.state.StatusPhase = models.PhaseThinking
		m.state.StatusMessage = "Generating"

	case workflow.ToolRequestedEvent:
		m.state.StatusPhase = models.PhaseExecuting
		m.state.StatusMessage = ev.Description

	case workflow.ApprovalRequiredEvent:
		m.state.StatusPhase = models.PhaseApproval
		m.state.StatusMessage = "Waiting for confirmation"

	case workflow.ToolResultEvent:
		m.appendMessage(toolMessage(ev.Result))
		m.state.StatusPhase = models.PhaseThinking
		m.state.StatusMessage = "Generating"

	case workflow.ErrorEvent:
		m.appendMessage(models.Message{
			Role:    models.RoleError,
			Content: fmt.Sprintf("[%s] %v", ev.Code, ev.Err),
		})
		m.state.StatusPhase = models.PhaseError
		m.state.StatusMessage = ev.Code

	case workflow.CancelledEvent:
		m.appendMessage(models.Message{Role: models.RoleInfo, Content: "Turn cancelled."})
		m.state.StatusPhase = models.PhaseReady
		m.state.StatusMessage = "Cancelled"

	case workflow.DoneEvent:
		m.state.StatusPhase = models.PhaseDone
		m.state.StatusMessage = ""
	}
	m.updateViewport()
}

func toolMessage(res tool.Result) models.Message {
	msg := models.Message{
		Role:    models.RoleTool,
		Display: res.Display,
	}
	if res.Status == tool.StatusError {
		msg.IsError = true
		if res.Err != nil {
			msg.Content = fmt.Sprintf("✘ %s: %s", res.Name, res.Err.Message)
			return msg
		}
		msg.Content = "✘ " + res.Name
		return msg
	}
	msg.Content = "✔ " + res.Name
	return msg
}

// handleKeyPress handles keyboard input
func (m BubbleTeaModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state.Pending != nil {
		switch msg.String() {
		case "y":
			return m.answer(gate.ProceedOnce), nil
		case "a":
			return m.answer(gate.ProceedAlways), nil
		case "n", "esc":
			return m.answer(gate.Cancel), nil
		case "ctrl+c":
			m = m.answer(gate.Cancel)
			m.cancel()
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		if m.state.Busy {
			m.cancel()
			return m, nil
		}
		return m, tea.Quit

	case "esc":
		if m.state.Busy {
			m.cancel()
		}
		return m, nil

	case "enter":
		input := strings.TrimSpace(m.state.Input.Value())
		if m.state.Busy || input == "" {
			return m, nil
		}
		m.state.Input.SetValue("")
		if strings.HasPrefix(input, "/") {
			return m.handleCommand(input)
		}
		return m.submit(input)
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

// answer resolves the pending confirmation.
func (m BubbleTeaModel) answer(d gate.Decision) BubbleTeaModel {
	if m.pendingResp != nil {
		m.pendingResp <- d
	}
	m.pendingResp = nil
	m.state.Pending = nil
	m.state.StatusPhase = models.PhaseExecuting
	m.state.StatusMessage = ""
	return m
}

func (m *BubbleTeaModel) cancel() {
	if m.cancelTurn != nil {
		m.cancelTurn()
	}
	m.state.StatusMessage = "Cancelling"
}

// submit starts a turn for prompt.
func (m BubbleTeaModel) submit(prompt string) (tea.Model, tea.Cmd) {
	m.appendMessage(models.Message{Role: models.RoleUser, Content: prompt})
	m.updateViewport()

	ctx, cancel := context.WithCancel(m.baseCtx)
	m.cancelTurn = cancel
	m.state.Busy = true
	m.state.StatusPhase = models.PhaseThinking
	m.state.StatusMessage = "Generating"

	return m, tea.Batch(startTurn(ctx, m.runner, prompt, m.events), m.state.Spinner.Tick)
}

// handleCommand handles slash commands
func (m BubbleTeaModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	switch parts[0] {
	case "/quit", "/exit":
		return m, tea.Quit
	case "/clear":
		m.state.Messages = []models.Message{}
	case "/help":
		m.appendMessage(models.Message{Role: models.RoleInfo, Content: helpText})
	default:
		m.appendMessage(models.Message{Role: models.RoleError, Content: "Unknown command: " + parts[0]})
	}
	m.updateViewport()
	return m, nil
}

func (m *BubbleTeaModel) appendMessage(msg models.Message) {
	m.state.Messages = append(m.state.Messages, msg)
}

// updateViewport updates the viewport content
func (m *BubbleTeaModel) updateViewport() {
	m.state.Viewport.SetContent(views.FormatChatContent(m.state.Messages, m.renderer))
	m.state.Viewport.GotoBottom()
}

// startTurn drains one turn into events and finishes with turnFinishedMsg.
func startTurn(ctx context.Context, runner turnRunner, prompt string, events chan<- tea.Msg) tea.Cmd {
	return func() tea.Msg {
		for ev := range runner.RunTurn(ctx, prompt) {
			events <- eventMsg{event: ev}
		}
		events <- turnFinishedMsg{}
		return nil
	}
}

func listenForApprovals(ch <-chan approvalRequest) tea.Cmd {
	return func() tea.Msg {
		return approvalRequestMsg(<-ch)
	}
}

func listenForEvents(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}
