package file

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Cyclone1070/warden/internal/config"
	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/Cyclone1070/warden/internal/tool/helper/content"
)

const defaultPerm os.FileMode = 0o644

// fileWriter defines the minimal filesystem operations needed for writing files.
type fileWriter interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
}

// WriteFileTool handles file writing operations.
type WriteFileTool struct {
	fileOps fileWriter
	config  *config.Config
	root    string
}

// NewWriteFileTool creates a new WriteFileTool with injected dependencies.
func NewWriteFileTool(fileOps fileWriter, cfg *config.Config, root string) *WriteFileTool {
	return &WriteFileTool{fileOps: fileOps, config: cfg, root: root}
}

func (t *WriteFileTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "write_file",
		Description: "Create or overwrite a text file with the given content. Missing parent directories are created.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"path":    {Type: tool.TypeString, Description: "Absolute path to the file"},
				"content": {Type: tool.TypeString, Description: "Full file content"},
			},
			Required: []string{"path", "content"},
		},
	}
}

func (t *WriteFileTool) Input() any { return &WriteFileInput{} }

// Execute writes the file atomically and returns a diff against the previous
// content, which is empty for a new file. Existing permissions are preserved.
func (t *WriteFileTool) Execute(ctx context.Context, input any) (tool.Output, error) {
	req, ok := input.(*WriteFileInput)
	if !ok {
		return tool.Output{}, fmt.Errorf("invalid input type: %T", input)
	}

	data := []byte(req.Content)
	if content.IsBinaryContent(data) {
		return tool.Output{}, fmt.Errorf("%w: refusing to write binary content to %s", ErrBinaryFile, req.Path)
	}
	if limit := t.config.Tools.MaxFileSize; int64(len(data)) > limit {
		return tool.Output{}, fmt.Errorf("%w: %s (size %d, limit %d)", ErrFileTooLarge, req.Path, len(data), limit)
	}

	perm := defaultPerm
	var old string
	info, err := t.fileOps.Stat(req.Path)
	switch {
	case err == nil:
		if info.IsDir() {
			return tool.Output{}, fmt.Errorf("%w: %s", ErrIsDirectory, req.Path)
		}
		perm = info.Mode().Perm()
		prev, err := t.fileOps.ReadFile(req.Path)
		if err != nil {
			return tool.Output{}, &ReadError{Path: req.Path, Cause: err}
		}
		old = string(prev)
	case !errors.Is(err, os.ErrNotExist):
		return tool.Output{}, &StatError{Path: req.Path, Cause: err}
	}

	if err := t.fileOps.WriteFileAtomic(req.Path, data, perm); err != nil {
		return tool.Output{}, err
	}

	rel := relPath(t.root, req.Path)
	verb := "Created"
	if info != nil {
		verb = "Overwrote"
	}
	return tool.Output{
		Content: fmt.Sprintf("%s %s (%d bytes)", verb, rel, len(data)),
		Display: diffDisplay(rel, old, req.Content),
	}, nil
}
