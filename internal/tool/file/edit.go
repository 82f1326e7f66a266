package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Cyclone1070/warden/internal/config"
	"github.com/Cyclone1070/warden/internal/tool"
)

// EditFileTool handles in-place text replacement in existing files.
type EditFileTool struct {
	fileOps fileWriter
	config  *config.Config
	root    string
}

// NewEditFileTool creates a new EditFileTool with injected dependencies.
func NewEditFileTool(fileOps fileWriter, cfg *config.Config, root string) *EditFileTool {
	return &EditFileTool{fileOps: fileOps, config: cfg, root: root}
}

func (t *EditFileTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "edit_file",
		Description: "Edit an existing file by replacing exact text snippets. Operations are applied in order. An empty 'before' appends to the end of the file.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"path": {Type: tool.TypeString, Description: "Absolute path to the file"},
				"operations": {
					Type:        tool.TypeArray,
					Description: "List of edit operations",
					Items: &tool.Schema{
						Type: tool.TypeObject,
						Properties: map[string]*tool.Schema{
							"before":                {Type: tool.TypeString, Description: "Exact text to find"},
							"after":                 {Type: tool.TypeString, Description: "Replacement text"},
							"expected_replacements": {Type: tool.TypeInteger, Description: "Expected match count, default 1"},
						},
						Required: []string{"before", "after"},
					},
				},
			},
			Required: []string{"path", "operations"},
		},
	}
}

func (t *EditFileTool) Input() any { return &EditFileInput{} }

// Execute applies the operations to the file and writes it atomically. Matching
// is done on LF-normalised text and CRLF endings are restored on write. Nothing
// is written unless every operation succeeds.
func (t *EditFileTool) Execute(ctx context.Context, input any) (tool.Output, error) {
	req, ok := input.(*EditFileInput)
	if !ok {
		return tool.Output{}, fmt.Errorf("invalid input type: %T", input)
	}
	if len(req.Operations) == 0 {
		return tool.Output{}, tool.NewError(tool.CodeInvalidArguments, "operations cannot be empty", nil)
	}

	info, err := t.fileOps.Stat(req.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return tool.Output{}, fmt.Errorf("%w: %s (use write_file to create it)", ErrFileMissing, req.Path)
		}
		return tool.Output{}, &StatError{Path: req.Path, Cause: err}
	}
	if info.IsDir() {
		return tool.Output{}, fmt.Errorf("%w: %s", ErrIsDirectory, req.Path)
	}

	data, err := t.fileOps.ReadFile(req.Path)
	if err != nil {
		return tool.Output{}, &ReadError{Path: req.Path, Cause: err}
	}

	raw := string(data)
	hasCRLF := strings.Contains(raw, "\r\n")
	oldContent := strings.ReplaceAll(raw, "\r\n", "\n")

	text := oldContent
	for i, op := range req.Operations {
		before := strings.ReplaceAll(op.Before, "\r\n", "\n")
		after := strings.ReplaceAll(op.After, "\r\n", "\n")
		expected := max(op.ExpectedReplacements, 1)

		if before == "" {
			// Appending has exactly one target.
			if expected != 1 {
				return tool.Output{}, &CountMismatchError{Path: req.Path, Expected: expected, Found: 1}
			}
			text += after
			continue
		}

		found := strings.Count(text, before)
		if found == 0 {
			return tool.Output{}, fmt.Errorf("%w: operation %d, %q in %s", ErrSnippetNotFound, i+1, op.Before, req.Path)
		}
		if found != expected {
			return tool.Output{}, &CountMismatchError{Path: req.Path, Expected: expected, Found: found}
		}
		text = strings.Replace(text, before, after, expected)
	}

	final := text
	if hasCRLF {
		final = strings.ReplaceAll(text, "\n", "\r\n")
	}
	if limit := t.config.Tools.MaxFileSize; int64(len(final)) > limit {
		return tool.Output{}, fmt.Errorf("%w after edit: %s (size %d, limit %d)", ErrFileTooLarge, req.Path, len(final), limit)
	}

	if err := t.fileOps.WriteFileAtomic(req.Path, []byte(final), info.Mode().Perm()); err != nil {
		return tool.Output{}, err
	}

	rel := relPath(t.root, req.Path)
	d := diffDisplay(rel, oldContent, text)
	return tool.Output{
		Content: fmt.Sprintf("Applied %d operations to %s (+%d -%d lines)", len(req.Operations), rel, d.AddedLines, d.RemovedLines),
		Display: d,
	}, nil
}
