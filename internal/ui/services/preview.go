package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/Cyclone1070/warden/internal/workflow/gate"
)

const maxPreviewLines = 20

// RenderApprovalPreview shows what a call would do before the user confirms it.
func RenderApprovalPreview(req gate.Request) string {
	switch req.Name {
	case "edit_file":
		return renderEditPreview(req.Args)
	case "run_shell":
		return renderShellPreview(req.Args)
	case "write_file":
		return renderWritePreview(req.Args)
	}
	if len(req.Args) == 0 {
		return ""
	}
	data, err := json.MarshalIndent(req.Args, "", "  ")
	if err != nil {
		return ""
	}
	return clip(string(data), maxPreviewLines)
}

// RenderDisplay renders a tool result for the transcript.
func RenderDisplay(d tool.Display) string {
	switch d := d.(type) {
	case tool.DiffDisplay:
		header := fmt.Sprintf("%s (+%d -%d)", d.Path, d.AddedLines, d.RemovedLines)
		if d.Diff == "" {
			return header + "\n(no changes)"
		}
		return header + "\n" + clip(d.Diff, maxPreviewLines)
	case tool.StructuredDisplay:
		return renderStructured(d)
	case tool.TextDisplay:
		return clip(string(d), maxPreviewLines)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", d)
	}
}

func renderStructured(d tool.StructuredDisplay) string {
	data, err := json.Marshal(d.Data)
	if err != nil {
		return d.Title
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return d.Title + "\n" + clip(string(data), maxPreviewLines)
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, fmt.Sprintf("%s (%d entries)", d.Title, len(rows)))
	for _, row := range rows {
		lines = append(lines, "  "+structuredRow(row))
	}
	return clip(strings.Join(lines, "\n"), maxPreviewLines)
}

// structuredRow renders a directory entry or a task.
func structuredRow(row map[string]any) string {
	if path, ok := row["path"].(string); ok {
		if isDir, _ := row["is_dir"].(bool); isDir {
			path += "/"
		}
		return path
	}
	if desc, ok := row["description"].(string); ok {
		return fmt.Sprintf("[%v] %s", row["status"], desc)
	}
	data, _ := json.Marshal(row)
	return string(data)
}

func renderEditPreview(args map[string]any) string {
	var sb strings.Builder
	path, _ := args["path"].(string)
	fmt.Fprintf(&sb, "File: %s\n", path)

	ops, ok := args["operations"].([]any)
	if !ok {
		return sb.String()
	}
	for i, op := range ops {
		opMap, ok := op.(map[string]any)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "\nOperation %d:\n", i+1)
		if before, ok := opMap["before"].(string); ok && before != "" {
			sb.WriteString("  - " + strings.ReplaceAll(before, "\n", "\n  - ") + "\n")
		}
		if after, ok := opMap["after"].(string); ok {
			sb.WriteString("  + " + strings.ReplaceAll(after, "\n", "\n  + ") + "\n")
		}
	}
	return clip(strings.TrimRight(sb.String(), "\n"), maxPreviewLines)
}

func renderShellPreview(args map[string]any) string {
	cmd, _ := args["command"].(string)
	preview := "$ " + cmd
	if dir, ok := args["working_dir"].(string); ok && dir != "" {
		preview += "\n  in " + dir
	}
	return preview
}

func renderWritePreview(args map[string]any) string {
	path, _ := args["path"].(string)
	content, _ := args["content"].(string)
	return fmt.Sprintf("File: %s\n\n%s", path, clip(content, maxPreviewLines-2))
}

// clip keeps the first n lines of s.
func clip(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n") + fmt.Sprintf("\n… %d more lines", len(lines)-n)
}
