package shell

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/Cyclone1070/warden/internal/config"
	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/Cyclone1070/warden/internal/tool/service/executor"
	"github.com/Cyclone1070/warden/internal/tool/service/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockExecutor struct {
	runFunc func(ctx context.Context, cmd executor.Command, timeout time.Duration) (*executor.Result, error)
	calls   []executor.Command
}

func (m *mockExecutor) RunWithTimeout(ctx context.Context, cmd executor.Command, timeout time.Duration) (*executor.Result, error) {
	m.calls = append(m.calls, cmd)
	if m.runFunc != nil {
		return m.runFunc(ctx, cmd, timeout)
	}
	return &executor.Result{}, nil
}

func newTestShell(ex commandExecutor, root string) *ShellTool {
	cfg := config.DefaultConfig()
	cfg.Tools.DefaultShellTimeout = 7
	return NewShellTool(fs.NewOSFileSystem(0), ex, cfg, root)
}

func TestShell_RunsThroughShInRoot(t *testing.T) {
	var gotTimeout time.Duration
	ex := &mockExecutor{runFunc: func(_ context.Context, _ executor.Command, timeout time.Duration) (*executor.Result, error) {
		gotTimeout = timeout
		return &executor.Result{Stdout: "ok\n"}, nil
	}}
	st := newTestShell(ex, "/work")

	out, err := st.Execute(context.Background(), &ShellInput{Command: "go test ./..."})

	require.NoError(t, err)
	require.Len(t, ex.calls, 1)
	assert.Equal(t, []string{"sh", "-c", "go test ./..."}, ex.calls[0].Args)
	assert.Equal(t, "/work", ex.calls[0].Dir)
	assert.Nil(t, ex.calls[0].Env, "no env files means the environment is inherited")
	assert.Equal(t, 7*time.Second, gotTimeout)
	assert.Contains(t, out.Content, "Exit code: 0")
	assert.Contains(t, out.Content, "--- stdout ---\nok\n")
}

func TestShell_NonZeroExitIsErrorWithOutput(t *testing.T) {
	ex := &mockExecutor{runFunc: func(context.Context, executor.Command, time.Duration) (*executor.Result, error) {
		return &executor.Result{Stderr: "FAIL", ExitCode: 2}, errors.New("exit status 2")
	}}
	st := newTestShell(ex, "/work")

	out, err := st.Execute(context.Background(), &ShellInput{Command: "go test", WorkingDir: "/work/pkg", TimeoutSeconds: 3})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Equal(t, "/work/pkg", ex.calls[0].Dir)
	assert.Contains(t, out.Content, "--- stderr ---\nFAIL\n")
}

func TestShell_Timeout(t *testing.T) {
	ex := &mockExecutor{runFunc: func(context.Context, executor.Command, time.Duration) (*executor.Result, error) {
		return &executor.Result{Stdout: "partial", ExitCode: -1, TimedOut: true, Truncated: true}, executor.ErrTimeout
	}}
	st := newTestShell(ex, "/work")

	out, err := st.Execute(context.Background(), &ShellInput{Command: "sleep 100", TimeoutSeconds: 1})

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, time.Second, timeoutErr.Duration)
	assert.Contains(t, out.Content, "partial")
	assert.Contains(t, out.Content, "[output truncated]")
}

func TestShell_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ex := &mockExecutor{runFunc: func(context.Context, executor.Command, time.Duration) (*executor.Result, error) {
		cancel()
		return &executor.Result{ExitCode: -1}, context.Canceled
	}}
	st := newTestShell(ex, "/work")

	_, err := st.Execute(ctx, &ShellInput{Command: "sleep 100"})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestShell_StartFailure(t *testing.T) {
	startErr := &executor.CommandError{Cmd: "sh", Stage: "start", Cause: errors.New("no such file")}
	ex := &mockExecutor{runFunc: func(context.Context, executor.Command, time.Duration) (*executor.Result, error) {
		return nil, startErr
	}}
	st := newTestShell(ex, "/work")

	out, err := st.Execute(context.Background(), &ShellInput{Command: "ls"})

	assert.ErrorIs(t, err, startErr)
	assert.Contains(t, out.Content, "Exit code: -1")
}

func TestShell_NegativeTimeout(t *testing.T) {
	st := newTestShell(&mockExecutor{}, "/work")

	_, err := st.Execute(context.Background(), &ShellInput{Command: "ls", TimeoutSeconds: -1})

	assert.Equal(t, tool.CodeInvalidArguments, tool.CodeOf(err))
}

func TestShell_LoadsEnvFiles(t *testing.T) {
	root := t.TempDir()
	envPath := filepath.Join(root, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("# db\nDB_HOST=localhost\nexport TOKEN='abc'\n"), 0o644))
	ex := &mockExecutor{}
	st := newTestShell(ex, root)

	_, err := st.Execute(context.Background(), &ShellInput{Command: "env", EnvFiles: []string{envPath}})

	require.NoError(t, err)
	env := ex.calls[0].Env
	assert.Contains(t, env, "DB_HOST=localhost")
	assert.Contains(t, env, "TOKEN=abc")
}

func TestShell_RealProcess(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	root := t.TempDir()
	st := newTestShell(executor.NewOSCommandExecutor(executor.Options{}), root)

	out, err := st.Execute(context.Background(), &ShellInput{Command: "echo hello"})
	require.NoError(t, err)
	assert.Contains(t, out.Content, "hello")

	_, err = st.Execute(context.Background(), &ShellInput{Command: "exit 3"})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
}

func TestShellInput_Scopes(t *testing.T) {
	in := &ShellInput{Command: "FOO=1 go build ./...", WorkingDir: "/w/cmd", EnvFiles: []string{"/w/.env"}}

	assert.Equal(t, "go", in.AllowScope())
	assert.Equal(t, "FOO=1 go build ./...", in.CommandLine())
	assert.Equal(t, []string{"/w/cmd", "/w/.env"}, in.TargetPaths())
	assert.Empty(t, (&ShellInput{Command: "ls"}).TargetPaths())
}

func TestShellInput_SetTargetPaths(t *testing.T) {
	in := &ShellInput{Command: "make", WorkingDir: "/w/link/..", EnvFiles: []string{"/w/a/../.env", "/w/b.env"}}
	in.SetTargetPaths([]string{"/real", "/real/.env", "/real/b.env"})

	assert.Equal(t, "/real", in.WorkingDir)
	assert.Equal(t, []string{"/real/.env", "/real/b.env"}, in.EnvFiles)

	noDir := &ShellInput{Command: "make", EnvFiles: []string{"/w/.env"}}
	noDir.SetTargetPaths([]string{"/real/.env"})

	assert.Empty(t, noDir.WorkingDir)
	assert.Equal(t, []string{"/real/.env"}, noDir.EnvFiles)
}
