package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/Cyclone1070/warden/internal/workflow"
	"github.com/Cyclone1070/warden/internal/workflow/gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRunner struct {
	events []workflow.Event
}

func (m *mockRunner) RunTurn(context.Context, string) iter.Seq[workflow.Event] {
	return func(yield func(workflow.Event) bool) {
		for _, ev := range m.events {
			if !yield(ev) {
				return
			}
		}
	}
}

func TestRunPrintsEvents(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)
	runner := &mockRunner{events: []workflow.Event{
		workflow.TextEvent{Text: "Editing "},
		workflow.TextEvent{Text: "now."},
		workflow.ToolRequestedEvent{Description: "write_file /ws/a.txt"},
		workflow.ToolResultEvent{Result: tool.Success("c1", "write_file", tool.Output{
			Content: "Created a.txt",
			Display: tool.DiffDisplay{Path: "a.txt", Diff: "+hello", AddedLines: 1},
		})},
		workflow.DoneEvent{},
	}}

	err := c.Run(context.Background(), runner, "make a file")

	require.NoError(t, err)
	got := out.String()
	assert.Contains(t, got, "Editing now.")
	assert.Contains(t, got, "→ write_file /ws/a.txt")
	assert.Contains(t, got, "✔ write_file")
	assert.Contains(t, got, "  a.txt (+1 -0)")
}

func TestRunReturnsTurnError(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)
	cause := errors.New("quota")
	runner := &mockRunner{events: []workflow.Event{
		workflow.ErrorEvent{Code: "BACKEND_RATE_LIMITED", Err: cause},
	}}

	err := c.Run(context.Background(), runner, "hi")

	var turnErr *TurnError
	require.ErrorAs(t, err, &turnErr)
	assert.Equal(t, "BACKEND_RATE_LIMITED", turnErr.Code)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, out.String(), "error [BACKEND_RATE_LIMITED]: quota")
}

func TestRunCancelled(t *testing.T) {
	c := New(strings.NewReader(""), io.Discard)

	err := c.Run(context.Background(), &mockRunner{events: []workflow.Event{workflow.CancelledEvent{}}}, "hi")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrintFailedResult(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)

	c.Print(workflow.ToolResultEvent{Result: tool.Declined("c1", "run_shell")})

	assert.Contains(t, out.String(), "✘ run_shell: The user declined")
}

func TestRequestApprovalAnswers(t *testing.T) {
	tests := []struct {
		input string
		want  gate.Decision
	}{
		{"y\n", gate.ProceedOnce},
		{"YES\n", gate.ProceedOnce},
		{"a\n", gate.ProceedAlways},
		{"n\n", gate.Cancel},
		{"maybe\n", gate.Cancel},
		{"", gate.Cancel},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			c := New(strings.NewReader(tt.input), &out)

			got, err := c.RequestApproval(context.Background(), gate.Request{
				Name:   "run_shell",
				Detail: "run_shell: ls",
				Args:   map[string]any{"command": "ls"},
			})

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Allow run_shell?")
			assert.Contains(t, out.String(), "$ ls")
		})
	}
}

func TestRequestApprovalSequentialAnswers(t *testing.T) {
	c := New(strings.NewReader("y\na\n"), io.Discard)

	first, err := c.RequestApproval(context.Background(), gate.Request{Name: "write_file"})
	require.NoError(t, err)
	second, err := c.RequestApproval(context.Background(), gate.Request{Name: "write_file"})
	require.NoError(t, err)

	assert.Equal(t, gate.ProceedOnce, first)
	assert.Equal(t, gate.ProceedAlways, second)
}

func TestRequestApprovalContextCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	c := New(pr, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := c.RequestApproval(ctx, gate.Request{Name: "write_file"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, gate.Cancel, got)
}

func TestRequestApprovalReadError(t *testing.T) {
	readErr := errors.New("input/output error")
	c := New(io.MultiReader(strings.NewReader("y\n"), iotest.ErrReader(readErr)), io.Discard)

	first, err := c.RequestApproval(context.Background(), gate.Request{Name: "write_file"})
	require.NoError(t, err)
	assert.Equal(t, gate.ProceedOnce, first)

	second, err := c.RequestApproval(context.Background(), gate.Request{Name: "write_file"})
	assert.ErrorIs(t, err, readErr)
	assert.Equal(t, gate.Cancel, second)
}
