package file

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Cyclone1070/warden/internal/config"
	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/Cyclone1070/warden/internal/tool/helper/content"
	"github.com/Cyclone1070/warden/internal/tool/service/fs"
)

// fileReader defines the minimal filesystem operations needed for reading files.
type fileReader interface {
	Stat(path string) (os.FileInfo, error)
	ReadRange(path string, offset, limit int64) ([]byte, int64, error)
}

// ReadFileTool handles file reading operations.
type ReadFileTool struct {
	fileOps fileReader
	config  *config.Config
	root    string
}

// NewReadFileTool creates a new ReadFileTool with injected dependencies.
func NewReadFileTool(fileOps fileReader, cfg *config.Config, root string) *ReadFileTool {
	return &ReadFileTool{fileOps: fileOps, config: cfg, root: root}
}

func (t *ReadFileTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "read_file",
		Description: "Read a text file. Paths must be absolute and inside the workspace. Use offset and limit (bytes) to page through large files.",
		ReadOnly:    true,
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"path":   {Type: tool.TypeString, Description: "Absolute path to the file"},
				"offset": {Type: tool.TypeInteger, Description: "Byte offset to start reading from"},
				"limit":  {Type: tool.TypeInteger, Description: "Maximum number of bytes to read"},
			},
			Required: []string{"path"},
		},
	}
}

func (t *ReadFileTool) Input() any { return &ReadFileInput{} }

// Execute reads the requested range of a file. Binary files and whole-file
// reads above the size limit are refused.
func (t *ReadFileTool) Execute(ctx context.Context, input any) (tool.Output, error) {
	req, ok := input.(*ReadFileInput)
	if !ok {
		return tool.Output{}, fmt.Errorf("invalid input type: %T", input)
	}
	offset, limit := deref(req.Offset), deref(req.Limit)
	if offset < 0 || limit < 0 {
		return tool.Output{}, tool.NewError(tool.CodeInvalidArguments, "", ErrInvalidRange)
	}

	info, err := t.fileOps.Stat(req.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return tool.Output{}, fmt.Errorf("%w: %s", ErrFileMissing, req.Path)
		}
		return tool.Output{}, &StatError{Path: req.Path, Cause: err}
	}
	if info.IsDir() {
		return tool.Output{}, fmt.Errorf("%w: %s", ErrIsDirectory, req.Path)
	}

	maxFileSize := t.config.Tools.MaxFileSize
	if limit == 0 && info.Size()-offset > maxFileSize {
		return tool.Output{}, fmt.Errorf("%w: %s is %d bytes (limit %d), read it in ranges with offset and limit",
			ErrFileTooLarge, req.Path, info.Size(), maxFileSize)
	}

	data, size, err := t.fileOps.ReadRange(req.Path, offset, limit)
	if err != nil {
		var tooLarge *fs.FileTooLargeError
		if errors.As(err, &tooLarge) {
			return tool.Output{}, fmt.Errorf("%w: %v", ErrFileTooLarge, err)
		}
		return tool.Output{}, &ReadError{Path: req.Path, Cause: err}
	}

	if content.IsBinaryContent(data) {
		return tool.Output{}, fmt.Errorf("%w: %s", ErrBinaryFile, req.Path)
	}

	text := string(data)
	rel := relPath(t.root, req.Path)
	end := offset + int64(len(data))
	if offset > 0 || end < size {
		text += fmt.Sprintf("\n\n[Read bytes %d-%d of %d. Use offset %d to continue.]", offset, end, size, end)
	}

	return tool.Output{
		Content: text,
		Display: tool.TextDisplay(fmt.Sprintf("Read %s (%d lines)", rel, content.CountLines(string(data)))),
	}, nil
}
