package toolmanager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	provider "github.com/Cyclone1070/warden/internal/provider/models"
	"github.com/Cyclone1070/warden/internal/security"
	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/mitchellh/mapstructure"
)

const maxDescribeLen = 120

// ToolManager holds the tool registry and runs calls through validation before execution.
type ToolManager struct {
	registry map[string]tool.Tool
	root     string
	logger   *slog.Logger
}

// NewToolManager creates a ToolManager confined to the workspace root.
func NewToolManager(root string, logger *slog.Logger, tools ...tool.Tool) *ToolManager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tm := &ToolManager{
		registry: make(map[string]tool.Tool),
		root:     root,
		logger:   logger,
	}
	for _, t := range tools {
		tm.Register(t)
	}
	return tm
}

// Register adds t, replacing any tool with the same name.
func (m *ToolManager) Register(t tool.Tool) {
	m.registry[t.Declaration().Name] = t
}

// Declarations returns all tool declarations sorted by name.
func (m *ToolManager) Declarations() []tool.Declaration {
	decls := make([]tool.Declaration, 0, len(m.registry))
	for _, t := range m.registry {
		decls = append(decls, t.Declaration())
	}
	sort.Slice(decls, func(i, j int) bool {
		return decls[i].Name < decls[j].Name
	})
	return decls
}

// Has reports whether a tool with the given name is registered.
func (m *ToolManager) Has(name string) bool {
	_, ok := m.registry[name]
	return ok
}

// IsReadOnly reports whether the named tool is registered and declared read-only.
func (m *ToolManager) IsReadOnly(name string) bool {
	t, ok := m.registry[name]
	return ok && t.Declaration().ReadOnly
}

// AllowKey returns the session allow-list key for a call: the tool name, or
// "name:scope" when the input narrows the grant.
func (m *ToolManager) AllowKey(call provider.ToolCall) string {
	t, ok := m.registry[call.Name]
	if !ok {
		return call.Name
	}
	input, err := decode(t, call.Args)
	if err != nil {
		return call.Name
	}
	if s, ok := input.(tool.AllowScope); ok && s.AllowScope() != "" {
		return call.Name + ":" + s.AllowScope()
	}
	return call.Name
}

// Describe returns a one-line summary of a call for display.
func (m *ToolManager) Describe(call provider.ToolCall) string {
	if t, ok := m.registry[call.Name]; ok {
		if input, err := decode(t, call.Args); err == nil {
			if s, ok := input.(fmt.Stringer); ok {
				return truncate(call.Name + " " + s.String())
			}
		}
	}
	if len(call.Args) == 0 {
		return call.Name
	}
	args, err := json.Marshal(call.Args)
	if err != nil {
		return call.Name
	}
	return truncate(call.Name + " " + string(args))
}

// Invoke validates and executes one call. It never returns a Go error: every
// failure is folded into an error Result for the model.
func (m *ToolManager) Invoke(ctx context.Context, call provider.ToolCall) tool.Result {
	logger := m.logger.With("tool", call.Name, "call_id", call.ID)

	t, ok := m.registry[call.Name]
	if !ok {
		logger.Info("unknown tool requested")
		names := make([]string, 0, len(m.registry))
		for _, d := range m.Declarations() {
			names = append(names, d.Name)
		}
		msg := fmt.Sprintf("tool %q does not exist. Available tools: %s", call.Name, strings.Join(names, ", "))
		return tool.Failure(call.ID, call.Name, tool.NewError(tool.CodeUnknownTool, msg, nil), "")
	}

	decl := t.Declaration()
	if err := decl.Parameters.Validate(call.Args); err != nil {
		return m.fail(logger, call, tool.NewError(tool.CodeInvalidArguments, "invalid arguments: "+err.Error(), err), schemaHint(decl))
	}

	input, err := decode(t, call.Args)
	if err != nil {
		return m.fail(logger, call, tool.NewError(tool.CodeInvalidArguments, "invalid arguments: "+err.Error(), err), schemaHint(decl))
	}

	if pt, ok := input.(tool.PathTarget); ok {
		targets := pt.TargetPaths()
		if len(targets) > 0 {
			resolved := make([]string, len(targets))
			for i, p := range targets {
				r, err := m.checkPath(p)
				if err != nil {
					return m.fail(logger, call, tool.NewError(tool.CodePathEscape, "", err), "")
				}
				resolved[i] = r
			}
			pt.SetTargetPaths(resolved)
		}
	}

	if cl, ok := input.(tool.CommandLine); ok {
		if err := security.ValidateCommand(cl.CommandLine()); err != nil {
			return m.fail(logger, call, tool.NewError(tool.CodeUnsafeCommand, "", err), "")
		}
	}

	logger.Debug("executing tool")
	out, err := execute(ctx, t, input)
	if err != nil {
		var te *tool.Error
		if !errors.As(err, &te) {
			te = tool.NewError(tool.CodeExecutionFailure, "", err)
		}
		return m.fail(logger, call, te, out.Content)
	}

	logger.Info("tool finished", "status", tool.StatusSuccess)
	return tool.Success(call.ID, call.Name, out)
}

func (m *ToolManager) fail(logger *slog.Logger, call provider.ToolCall, err *tool.Error, partial string) tool.Result {
	logger.Info("tool finished", "status", tool.StatusError, "code", err.Code, "error", err.Message)
	return tool.Failure(call.ID, call.Name, err, partial)
}

// checkPath returns the canonical form of p, or an error when p is relative
// or resolves outside the root.
func (m *ToolManager) checkPath(p string) (string, error) {
	if !filepath.IsAbs(p) {
		return "", fmt.Errorf("%w: %s (paths must be absolute and inside %s)", security.ErrRelativePath, p, m.root)
	}
	return security.ResolveWithin(p, m.root)
}

// execute runs the tool and turns a panic into an error.
func execute(ctx context.Context, t tool.Tool, input any) (out tool.Output, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool panicked: %v", r)
		}
	}()
	return t.Execute(ctx, input)
}

func decode(t tool.Tool, args map[string]any) (any, error) {
	input := t.Input()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		ErrorUnused: true,
		Result:      input,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(args); err != nil {
		return nil, err
	}
	return input, nil
}

func schemaHint(decl tool.Declaration) string {
	if decl.Parameters == nil {
		return ""
	}
	schema, err := json.MarshalIndent(decl.Parameters, "", "  ")
	if err != nil {
		return ""
	}
	return "Expected schema:\n" + string(schema)
}

func truncate(s string) string {
	if len(s) <= maxDescribeLen {
		return s
	}
	return s[:maxDescribeLen-3] + "..."
}
