package directory

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/warden/internal/config"
	"github.com/Cyclone1070/warden/internal/tool"
)

// FindFileTool handles file finding operations.
type FindFileTool struct {
	fs     dirReader
	ignore ignoreMatcher
	config *config.Config
	root   string
}

// NewFindFileTool creates a new FindFileTool with injected dependencies.
func NewFindFileTool(fs dirReader, ignore ignoreMatcher, cfg *config.Config, root string) *FindFileTool {
	return &FindFileTool{fs: fs, ignore: ignore, config: cfg, root: root}
}

func (t *FindFileTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "find_file",
		Description: "Find files by glob pattern. A pattern without '/' matches file names; with '/' it matches the path relative to the search directory.",
		ReadOnly:    true,
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"pattern":         {Type: tool.TypeString, Description: "Glob pattern, e.g. *.go or cmd/*/main.go"},
				"path":            {Type: tool.TypeString, Description: "Absolute directory to search, defaults to the workspace root"},
				"max_depth":       {Type: tool.TypeInteger, Description: "Maximum depth to descend, 0 is unlimited"},
				"include_ignored": {Type: tool.TypeBoolean, Description: "Include gitignored files"},
				"limit":           {Type: tool.TypeInteger, Description: "Maximum matches to return"},
			},
			Required: []string{"pattern"},
		},
	}
}

func (t *FindFileTool) Input() any { return &FindFileInput{} }

// Execute walks the search directory and returns matching files in walk order.
func (t *FindFileTool) Execute(ctx context.Context, input any) (tool.Output, error) {
	req, ok := input.(*FindFileInput)
	if !ok {
		return tool.Output{}, fmt.Errorf("invalid input type: %T", input)
	}
	if req.Pattern == "" {
		return tool.Output{}, tool.NewError(tool.CodeInvalidArguments, "", ErrPatternRequired)
	}
	if _, err := path.Match(req.Pattern, ""); err != nil {
		return tool.Output{}, tool.NewError(tool.CodeInvalidArguments, "", fmt.Errorf("%w %s: %v", ErrInvalidPattern, req.Pattern, err))
	}

	limit, err := pageLimit(req.Limit, t.config)
	if err != nil {
		return tool.Output{}, err
	}

	start, err := checkStart(t.fs, t.root, req.Path)
	if err != nil {
		return tool.Output{}, err
	}

	maxDepth := -1
	if req.MaxDepth > 0 {
		maxDepth = req.MaxDepth - 1
	}
	w := &walker{fs: t.fs, ignore: t.ignore, root: t.root, maxDepth: maxDepth, includeIgnored: req.IncludeIgnored}

	startRel := relOrDot(t.root, start)
	byPath := strings.Contains(req.Pattern, "/")

	var (
		matches []DirectoryEntry
		more    bool
	)
	err = w.walk(ctx, start, 0, func(e DirectoryEntry, _ int) error {
		if e.IsDir {
			return nil
		}
		subject := path.Base(e.Path)
		if byPath {
			subject = strings.TrimPrefix(e.Path, startRel+"/")
		}
		if ok, _ := path.Match(req.Pattern, subject); !ok {
			return nil
		}
		if len(matches) == limit {
			more = true
			return errStop
		}
		matches = append(matches, e)
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return tool.Output{}, err
	}

	var b strings.Builder
	if len(matches) == 0 {
		fmt.Fprintf(&b, "No files matching %q under %s\n", req.Pattern, startRel)
	}
	for _, m := range matches {
		b.WriteString(m.Path)
		b.WriteByte('\n')
	}
	if more {
		fmt.Fprintf(&b, "[Results capped at %d matches. Narrow the pattern or path.]\n", limit)
	}

	return tool.Output{
		Content: b.String(),
		Display: tool.StructuredDisplay{Title: fmt.Sprintf("%s in %s", req.Pattern, startRel), Data: matches},
	}, nil
}

func relOrDot(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}
