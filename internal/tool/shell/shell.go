package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Cyclone1070/warden/internal/config"
	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/Cyclone1070/warden/internal/tool/service/executor"
)

// commandExecutor defines the interface for executing commands.
type commandExecutor interface {
	RunWithTimeout(ctx context.Context, cmd executor.Command, timeout time.Duration) (*executor.Result, error)
}

// ShellTool runs validated command lines with sh -c.
type ShellTool struct {
	envFiles        envFileReader
	commandExecutor commandExecutor
	config          *config.Config
	root            string
}

// NewShellTool creates a new ShellTool with injected dependencies.
func NewShellTool(envFiles envFileReader, commandExecutor commandExecutor, cfg *config.Config, root string) *ShellTool {
	if commandExecutor == nil {
		panic("commandExecutor is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &ShellTool{
		envFiles:        envFiles,
		commandExecutor: commandExecutor,
		config:          cfg,
		root:            root,
	}
}

func (t *ShellTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name: "run_shell",
		Description: "Run a single command with sh -c in the workspace. Pipes, redirection, command chaining, " +
			"substitution and variable expansion are refused unless quoted. Non-zero exit codes are reported as errors.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"command":         {Type: tool.TypeString, Description: "The command line to run"},
				"working_dir":     {Type: tool.TypeString, Description: "Absolute working directory, defaults to the workspace root"},
				"timeout_seconds": {Type: tool.TypeInteger, Description: "Timeout in seconds"},
				"env_files": {
					Type:        tool.TypeArray,
					Description: "Absolute paths of .env files to load into the environment",
					Items:       &tool.Schema{Type: tool.TypeString},
				},
			},
			Required: []string{"command"},
		},
	}
}

func (t *ShellTool) Input() any { return &ShellInput{} }

// Execute runs the command and reports stdout, stderr and the exit code. A
// non-zero exit or a timeout is returned as an error together with the output
// collected so far.
func (t *ShellTool) Execute(ctx context.Context, input any) (tool.Output, error) {
	req, ok := input.(*ShellInput)
	if !ok {
		return tool.Output{}, fmt.Errorf("invalid input type: %T", input)
	}
	if req.TimeoutSeconds < 0 {
		return tool.Output{}, tool.NewError(tool.CodeInvalidArguments, "", ErrNegativeTimeout)
	}

	dir := req.WorkingDir
	if dir == "" {
		dir = t.root
	}

	var env []string
	if len(req.EnvFiles) > 0 {
		env = os.Environ()
		for _, path := range req.EnvFiles {
			vars, err := ParseEnvFile(t.envFiles, path)
			if err != nil {
				return tool.Output{}, err
			}
			env = append(env, vars...)
		}
	}

	timeout := time.Duration(t.config.Tools.DefaultShellTimeout) * time.Second
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}

	start := time.Now()
	res, err := t.commandExecutor.RunWithTimeout(ctx, executor.Command{
		Args: []string{"sh", "-c", req.Command},
		Dir:  dir,
		Env:  env,
	}, timeout)
	if res == nil {
		res = &executor.Result{ExitCode: -1}
	}
	out := tool.Output{Content: formatResult(res, time.Since(start))}

	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, executor.ErrTimeout):
		return out, &TimeoutError{Command: req.Command, Duration: timeout}
	case ctx.Err() != nil:
		return out, ctx.Err()
	case res.ExitCode > 0:
		return out, &ExitError{Command: req.Command, Code: res.ExitCode}
	}
	return out, err
}

func formatResult(res *executor.Result, elapsed time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Exit code: %d (%s)\n", res.ExitCode, elapsed.Round(time.Millisecond))
	if res.Stdout != "" {
		b.WriteString("--- stdout ---\n")
		b.WriteString(res.Stdout)
		if !strings.HasSuffix(res.Stdout, "\n") {
			b.WriteByte('\n')
		}
	}
	if res.Stderr != "" {
		b.WriteString("--- stderr ---\n")
		b.WriteString(res.Stderr)
		if !strings.HasSuffix(res.Stderr, "\n") {
			b.WriteByte('\n')
		}
	}
	if res.Truncated {
		b.WriteString("[output truncated]\n")
	}
	return b.String()
}
