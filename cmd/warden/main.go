// Package main is the warden command: a coding agent that asks before it touches your workspace.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Cyclone1070/warden/internal/config"
	"github.com/Cyclone1070/warden/internal/logging"
	"github.com/Cyclone1070/warden/internal/provider/gemini"
	"github.com/Cyclone1070/warden/internal/provider/resilience"
	"github.com/Cyclone1070/warden/internal/security"
	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/Cyclone1070/warden/internal/tool/directory"
	"github.com/Cyclone1070/warden/internal/tool/file"
	"github.com/Cyclone1070/warden/internal/tool/search"
	"github.com/Cyclone1070/warden/internal/tool/service/executor"
	osfs "github.com/Cyclone1070/warden/internal/tool/service/fs"
	"github.com/Cyclone1070/warden/internal/tool/service/git"
	"github.com/Cyclone1070/warden/internal/tool/shell"
	"github.com/Cyclone1070/warden/internal/tool/todo"
	"github.com/Cyclone1070/warden/internal/tool/web"
	"github.com/Cyclone1070/warden/internal/ui"
	"github.com/Cyclone1070/warden/internal/ui/console"
	"github.com/Cyclone1070/warden/internal/ui/services"
	"github.com/Cyclone1070/warden/internal/workflow/gate"
	"github.com/Cyclone1070/warden/internal/workflow/loop"
	"github.com/Cyclone1070/warden/internal/workflow/toolmanager"
	"golang.org/x/term"
	"google.golang.org/genai"
)

const systemInstruction = `You are warden, a coding assistant working inside the user's workspace at %s.
Use the tools to inspect and change files and to run commands. Always pass absolute paths inside the workspace.
Read a file before editing it. Keep answers short and say what you changed.`

type flags struct {
	prompt    string
	workspace string
	sessionID string
	resume    bool
	verbose   bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fset := flag.NewFlagSet("warden", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.StringVar(&f.prompt, "p", "", "run a single prompt without the interactive UI")
	fset.StringVar(&f.workspace, "workspace", "", "workspace root (default: current directory)")
	fset.StringVar(&f.sessionID, "session", "", "resume the given session id")
	fset.BoolVar(&f.resume, "resume", false, "resume the most recent session")
	fset.BoolVar(&f.verbose, "v", false, "also log to stderr in prompt mode")
	if err := fset.Parse(args); err != nil {
		return flags{}, err
	}
	if fset.NArg() > 0 {
		return flags{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fset.Args(), " "))
	}
	if f.resume && f.sessionID != "" {
		return flags{}, errors.New("-resume and -session are mutually exclusive")
	}
	return f, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	// Load configuration (from defaults + ~/.config/warden/config.json)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Warning: failed to load config: %v\n", err)
		fmt.Fprintf(stderr, "Using default configuration.\n")
		cfg = config.DefaultConfig()
	}

	// Piped input without -p is a one-shot prompt.
	interactive := f.prompt == "" && isTerminal(stdin) && isTerminal(stdout)
	if f.prompt == "" && !isTerminal(stdin) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read prompt from stdin: %w", err)
		}
		f.prompt = strings.TrimSpace(string(data))
		if f.prompt == "" {
			return errors.New("empty prompt on stdin")
		}
	}

	var logOut io.Writer
	if !interactive && f.verbose {
		logOut = stderr
	}
	logs, err := logging.New(cfg.Log, logOut)
	if err != nil {
		return err
	}
	defer logs.Close()
	logger := logs.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, err := workspaceRoot(f.workspace)
	if err != nil {
		return err
	}

	fsys := osfs.NewOSFileSystem(cfg.Tools.MaxFileSize)
	tools, err := createTools(cfg, root, fsys, logger)
	if err != nil {
		return err
	}
	manager := toolmanager.NewToolManager(root, logger, tools...)

	backend, err := createBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}

	sess, err := openSession(ctx, cfg, f, fsys, logger)
	if err != nil {
		return err
	}
	logger.Info("session started", "session_id", sess.id, "workspace", root, "resumed", len(sess.history) > 0)

	var approver gate.Approver
	var tui *ui.UI
	var cli *console.Console
	if interactive {
		tui = ui.New(ui.Options{Model: cfg.Model.Primary, Renderer: createRenderer(logger)})
		approver = tui
	} else {
		cli = console.New(stdin, stdout)
		approver = cli
	}

	g := gate.New(manager, approver, gate.NewAllowList(), gate.Policy{
		Allow: cfg.Policy.Allow,
		Deny:  cfg.Policy.Deny,
	}, logger)

	agent := loop.NewLoop(backend, manager, g, loop.Options{
		SessionID:         sess.id,
		MaxRounds:         cfg.Workflow.MaxRounds,
		SystemInstruction: fmt.Sprintf(systemInstruction, root),
		History:           sess.history,
		Checkpointer:      sess.store,
		Logger:            logger,
	})

	if interactive {
		return tui.Run(ctx, agent)
	}
	return cli.Run(ctx, agent, f.prompt)
}

func workspaceRoot(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	root, err := security.CanonicaliseRoot(dir)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize workspace root: %w", err)
	}
	return root, nil
}

func createTools(cfg *config.Config, root string, fsys *osfs.OSFileSystem, logger *slog.Logger) ([]tool.Tool, error) {
	var ignore interface {
		ShouldIgnore(relPath string, isDir bool) bool
	} = git.NoOpMatcher{}
	matcher, err := git.NewIgnoreMatcher(root, fsys)
	if err != nil {
		logger.Warn("gitignore unavailable, listing everything", "error", err)
	} else {
		ignore = matcher
	}

	commandExecutor := executor.NewOSCommandExecutor(executor.Options{
		MaxOutputBytes: cfg.Tools.MaxCommandOutputSize,
		GracePeriod:    time.Duration(cfg.Tools.GracefulShutdownMs) * time.Millisecond,
	})

	httpClient, err := web.NewHTTPClient(cfg.Tools.ProxyURL, time.Duration(cfg.Tools.FetchTimeoutSeconds)*time.Second)
	if err != nil {
		return nil, err
	}

	todos := todo.NewInMemoryTodoStore()

	return []tool.Tool{
		file.NewReadFileTool(fsys, cfg, root),
		file.NewWriteFileTool(fsys, cfg, root),
		file.NewEditFileTool(fsys, cfg, root),
		directory.NewListDirectoryTool(fsys, ignore, cfg, root),
		directory.NewFindFileTool(fsys, ignore, cfg, root),
		search.NewSearchContentTool(fsys, commandExecutor, cfg, root),
		shell.NewShellTool(fsys, commandExecutor, cfg, root),
		web.NewFetchTool(httpClient, cfg),
		todo.NewReadTodosTool(todos),
		todo.NewWriteTodosTool(todos),
	}, nil
}

func createBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*resilience.Controller, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable is required")
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	client := gemini.NewRealGeminiClient(genaiClient)

	primary, err := gemini.New(client, cfg.Model.Primary)
	if err != nil {
		return nil, err
	}
	// Left as a nil interface when no fallback is configured.
	var fallback resilience.Streamer
	if cfg.Model.Fallback != "" {
		fb, err := gemini.New(client, cfg.Model.Fallback)
		if err != nil {
			return nil, err
		}
		fallback = fb
	}

	breaker := resilience.NewBreaker(
		cfg.Breaker.FailureThreshold,
		time.Duration(cfg.Breaker.BackoffSeconds)*time.Second,
		logger,
	)
	return resilience.NewController(primary, fallback, breaker, resilience.Options{
		RequestsPerMinute: cfg.Model.RequestsPerMinute,
		MaxRetries:        cfg.Model.MaxRetries,
		RetryBaseDelay:    time.Duration(cfg.Model.RetryBaseDelayMs) * time.Millisecond,
		Logger:            logger,
	}), nil
}

func createRenderer(logger *slog.Logger) services.MarkdownRenderer {
	renderer, err := services.NewMarkdownRenderer(100)
	if err != nil {
		logger.Warn("markdown rendering disabled", "error", err)
		return nil
	}
	return renderer
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
