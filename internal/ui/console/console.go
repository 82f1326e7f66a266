// Package console is the line-oriented front end used for one-shot prompts.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"strings"
	"sync"

	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/Cyclone1070/warden/internal/ui/services"
	"github.com/Cyclone1070/warden/internal/workflow"
	"github.com/Cyclone1070/warden/internal/workflow/gate"
)

// turnRunner runs one user turn and streams its events.
type turnRunner interface {
	RunTurn(ctx context.Context, prompt string) iter.Seq[workflow.Event]
}

// TurnError reports a turn that ended with an ErrorEvent.
type TurnError struct {
	Code  string
	Cause error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Cause)
}

func (e *TurnError) Unwrap() error { return e.Cause }

// Console prints events to out and reads confirmation answers from in.
type Console struct {
	in  io.Reader
	out io.Writer

	once    sync.Once
	lines   chan string
	readErr error // set before lines is closed
}

// New creates a Console.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: in, out: out}
}

// Run executes one turn, printing its events. It returns a *TurnError when the turn fails
// and ctx.Err() when it is cancelled.
func (c *Console) Run(ctx context.Context, runner turnRunner, prompt string) error {
	var err error
	for ev := range runner.RunTurn(ctx, prompt) {
		c.Print(ev)
		switch ev := ev.(type) {
		case workflow.ErrorEvent:
			err = &TurnError{Code: ev.Code, Cause: ev.Err}
		case workflow.CancelledEvent:
			err = context.Canceled
			if ctx.Err() != nil {
				err = ctx.Err()
			}
		}
	}
	return err
}

// Print writes one event.
func (c *Console) Print(ev workflow.Event) {
	switch ev := ev.(type) {
	case workflow.TextEvent:
		fmt.Fprint(c.out, ev.Text)
	case workflow.ToolRequestedEvent:
		fmt.Fprintf(c.out, "\n→ %s\n", ev.Description)
	case workflow.ToolResultEvent:
		c.printResult(ev.Result)
	case workflow.ErrorEvent:
		fmt.Fprintf(c.out, "\nerror [%s]: %v\n", ev.Code, ev.Err)
	case workflow.CancelledEvent:
		fmt.Fprintln(c.out, "\ncancelled")
	case workflow.DoneEvent:
		fmt.Fprintln(c.out)
	}
}

func (c *Console) printResult(res tool.Result) {
	if res.Status == tool.StatusError && res.Err != nil {
		fmt.Fprintf(c.out, "✘ %s: %s\n", res.Name, res.Err.Message)
		return
	}
	fmt.Fprintf(c.out, "✔ %s\n", res.Name)
	if res.Display == nil || res.Display.Kind() == tool.DisplayText {
		return
	}
	if body := services.RenderDisplay(res.Display); body != "" {
		fmt.Fprintln(c.out, indent(body))
	}
}

// RequestApproval prompts on out and reads one answer line. Unrecognised answers
// and end of input cancel the call. A read error is returned with Cancel.
func (c *Console) RequestApproval(ctx context.Context, req gate.Request) (gate.Decision, error) {
	fmt.Fprintf(c.out, "\nAllow %s?\n", req.Name)
	if req.Detail != "" {
		fmt.Fprintln(c.out, indent(req.Detail))
	}
	if preview := services.RenderApprovalPreview(req); preview != "" {
		fmt.Fprintln(c.out, indent(preview))
	}
	fmt.Fprint(c.out, "[y]es once / [a]lways / [n]o: ")

	line, err := c.readLine(ctx)
	if err == io.EOF {
		fmt.Fprintln(c.out)
		return gate.Cancel, nil
	}
	if err != nil {
		return gate.Cancel, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return gate.ProceedOnce, nil
	case "a", "always":
		return gate.ProceedAlways, nil
	default:
		return gate.Cancel, nil
	}
}

// readLine waits for the next input line. A single goroutine owns the reader so a
// cancelled prompt does not lose the next answer.
func (c *Console) readLine(ctx context.Context) (string, error) {
	c.once.Do(func() {
		c.lines = make(chan string)
		go func() {
			defer close(c.lines)
			scanner := bufio.NewScanner(c.in)
			for scanner.Scan() {
				c.lines <- scanner.Text()
			}
			c.readErr = scanner.Err()
		}()
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			if c.readErr != nil {
				return "", fmt.Errorf("read answer: %w", c.readErr)
			}
			return "", io.EOF
		}
		return line, nil
	}
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
