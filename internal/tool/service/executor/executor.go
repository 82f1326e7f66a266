package executor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

const binarySample = 8000

// Command is a process to run.
type Command struct {
	Args []string
	Dir  string
	Env  []string
}

// Result represents the outcome of a command execution.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
	TimedOut  bool
}

// Options bounds command output and shutdown.
type Options struct {
	// MaxOutputBytes caps each of stdout and stderr.
	MaxOutputBytes int
	// GracePeriod is how long a command has to exit after an interrupt before it is killed.
	GracePeriod time.Duration
}

// OSCommandExecutor runs commands with os/exec.
type OSCommandExecutor struct {
	opts Options
}

// NewOSCommandExecutor creates a new OSCommandExecutor.
func NewOSCommandExecutor(opts Options) *OSCommandExecutor {
	if opts.MaxOutputBytes <= 0 {
		opts.MaxOutputBytes = 1 << 20
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = 2 * time.Second
	}
	return &OSCommandExecutor{opts: opts}
}

// RunWithTimeout runs cmd until it exits, the timeout elapses or ctx is done.
// On timeout or cancellation the process is interrupted, then killed after the
// grace period. A non-zero exit returns the *exec.ExitError together with the
// collected output.
func (e *OSCommandExecutor) RunWithTimeout(ctx context.Context, cmd Command, timeout time.Duration) (*Result, error) {
	if len(cmd.Args) == 0 {
		return nil, ErrEmptyCommand
	}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	c := exec.CommandContext(runCtx, cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.Cancel = func() error { return c.Process.Signal(os.Interrupt) }
	c.WaitDelay = e.opts.GracePeriod

	stdout := newCollector(e.opts.MaxOutputBytes, binarySample)
	stderr := newCollector(e.opts.MaxOutputBytes, binarySample)
	c.Stdout = stdout
	c.Stderr = stderr

	if err := c.Start(); err != nil {
		return nil, &CommandError{Cmd: cmd.Args[0], Stage: "start", Cause: err}
	}
	waitErr := c.Wait()

	res := &Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		ExitCode:  exitCode(c, waitErr),
		Truncated: stdout.Truncated() || stderr.Truncated(),
	}

	switch {
	case ctx.Err() != nil:
		return res, ctx.Err()
	case runCtx.Err() != nil:
		res.TimedOut = true
		res.ExitCode = -1
		return res, ErrTimeout
	case waitErr != nil:
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return res, exitErr
		}
		return res, &CommandError{Cmd: cmd.Args[0], Stage: "wait", Cause: waitErr}
	}
	return res, nil
}

func exitCode(c *exec.Cmd, err error) int {
	if c.ProcessState != nil {
		return c.ProcessState.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}
