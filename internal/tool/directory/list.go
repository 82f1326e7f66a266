package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Cyclone1070/warden/internal/config"
	"github.com/Cyclone1070/warden/internal/tool"
)

// ListDirectoryTool handles directory listing operations.
type ListDirectoryTool struct {
	fs     dirReader
	ignore ignoreMatcher
	config *config.Config
	root   string
}

// NewListDirectoryTool creates a new ListDirectoryTool with injected dependencies.
// ignore may be nil, in which case nothing is filtered.
func NewListDirectoryTool(fs dirReader, ignore ignoreMatcher, cfg *config.Config, root string) *ListDirectoryTool {
	return &ListDirectoryTool{fs: fs, ignore: ignore, config: cfg, root: root}
}

func (t *ListDirectoryTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "list_directory",
		Description: "List directory contents. Gitignored entries are hidden unless include_ignored is set. Directories end with '/'.",
		ReadOnly:    true,
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"path":            {Type: tool.TypeString, Description: "Absolute directory path, defaults to the workspace root"},
				"max_depth":       {Type: tool.TypeInteger, Description: "Recursion depth: 0 lists immediate children, -1 is unlimited"},
				"include_ignored": {Type: tool.TypeBoolean, Description: "Include gitignored entries"},
				"offset":          {Type: tool.TypeInteger, Description: "Entries to skip"},
				"limit":           {Type: tool.TypeInteger, Description: "Maximum entries to return"},
			},
		},
	}
}

func (t *ListDirectoryTool) Input() any { return &ListDirectoryInput{} }

// Execute lists entries depth-first in name order and pages them with offset and limit.
func (t *ListDirectoryTool) Execute(ctx context.Context, input any) (tool.Output, error) {
	req, ok := input.(*ListDirectoryInput)
	if !ok {
		return tool.Output{}, fmt.Errorf("invalid input type: %T", input)
	}

	limit, err := pageLimit(req.Limit, t.config)
	if err != nil {
		return tool.Output{}, err
	}
	if req.Offset < 0 {
		return tool.Output{}, tool.NewError(tool.CodeInvalidArguments, "offset must be >= 0", nil)
	}

	start, err := checkStart(t.fs, t.root, req.Path)
	if err != nil {
		return tool.Output{}, err
	}

	w := &walker{
		fs:             t.fs,
		ignore:         t.ignore,
		root:           t.root,
		maxDepth:       max(req.MaxDepth, -1),
		includeIgnored: req.IncludeIgnored,
	}

	var (
		entries []DirectoryEntry
		seen    int
		more    bool
	)
	err = w.walk(ctx, start, 0, func(e DirectoryEntry, _ int) error {
		seen++
		if seen <= req.Offset {
			return nil
		}
		if len(entries) == limit {
			more = true
			return errStop
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return tool.Output{}, err
	}

	title := relOrDot(t.root, start)
	var b strings.Builder
	fmt.Fprintf(&b, "Contents of %s:\n", title)
	for _, e := range entries {
		b.WriteString(e.Path)
		if e.IsDir {
			b.WriteByte('/')
		}
		b.WriteByte('\n')
	}
	if len(entries) == 0 {
		b.WriteString("(empty)\n")
	}
	if more {
		fmt.Fprintf(&b, "[Page limit reached. More entries at offset %d.]\n", req.Offset+len(entries))
	}

	return tool.Output{
		Content: b.String(),
		Display: tool.StructuredDisplay{Title: title, Data: entries},
	}, nil
}

// pageLimit applies the configured default and maximum to a requested limit.
func pageLimit(requested int, cfg *config.Config) (int, error) {
	switch {
	case requested < 0:
		return 0, tool.NewError(tool.CodeInvalidArguments, "limit must be >= 0", nil)
	case requested == 0:
		return cfg.Tools.DefaultListDirectoryLimit, nil
	case requested > cfg.Tools.MaxListDirectoryLimit:
		return 0, tool.NewError(tool.CodeInvalidArguments,
			fmt.Sprintf("limit %d exceeds the maximum of %d", requested, cfg.Tools.MaxListDirectoryLimit), nil)
	}
	return requested, nil
}
