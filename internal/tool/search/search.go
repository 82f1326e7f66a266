package search

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Cyclone1070/warden/internal/config"
	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/Cyclone1070/warden/internal/tool/service/executor"
)

type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
}

type commandExecutor interface {
	RunWithTimeout(ctx context.Context, cmd executor.Command, timeout time.Duration) (*executor.Result, error)
}

// SearchContentTool searches file contents with ripgrep.
type SearchContentTool struct {
	fs              fileSystem
	commandExecutor commandExecutor
	config          *config.Config
	root            string
}

// NewSearchContentTool creates a new SearchContentTool with injected dependencies.
func NewSearchContentTool(fs fileSystem, commandExecutor commandExecutor, cfg *config.Config, root string) *SearchContentTool {
	return &SearchContentTool{
		fs:              fs,
		commandExecutor: commandExecutor,
		config:          cfg,
		root:            root,
	}
}

func (t *SearchContentTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name: "search_content",
		Description: "Search file contents for a regular expression (ripgrep syntax). Respects .gitignore unless " +
			"include_ignored is set. Results are sorted by file and line and can be paged with offset and limit.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"query":           {Type: tool.TypeString, Description: "Regular expression to search for"},
				"path":            {Type: tool.TypeString, Description: "Absolute directory to search, defaults to the workspace root"},
				"case_sensitive":  {Type: tool.TypeBoolean, Description: "Match case exactly"},
				"include_ignored": {Type: tool.TypeBoolean, Description: "Also search gitignored files"},
				"offset":          {Type: tool.TypeInteger, Description: "Number of matches to skip"},
				"limit":           {Type: tool.TypeInteger, Description: "Maximum matches to return"},
			},
			Required: []string{"query"},
		},
		ReadOnly: true,
	}
}

func (t *SearchContentTool) Input() any { return &SearchContentInput{} }

func (t *SearchContentTool) Execute(ctx context.Context, input any) (tool.Output, error) {
	req, ok := input.(*SearchContentInput)
	if !ok {
		return tool.Output{}, fmt.Errorf("invalid input type: %T", input)
	}
	if req.Query == "" {
		return tool.Output{}, tool.NewError(tool.CodeInvalidArguments, "", ErrQueryRequired)
	}
	if req.Offset < 0 || req.Limit < 0 {
		return tool.Output{}, tool.NewError(tool.CodeInvalidArguments, "", ErrInvalidRange)
	}

	dir := req.Path
	if dir == "" {
		dir = t.root
	}
	info, err := t.fs.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return tool.Output{}, fmt.Errorf("%w: %s", ErrFileMissing, dir)
	case err != nil:
		return tool.Output{}, &StatError{Path: dir, Cause: err}
	case !info.IsDir():
		return tool.Output{}, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	args := []string{"rg", "--json"}
	if !req.CaseSensitive {
		args = append(args, "-i")
	}
	if req.IncludeIgnored {
		args = append(args, "--no-ignore")
	}
	args = append(args, "--", req.Query, dir)

	timeout := time.Duration(t.config.Tools.DefaultShellTimeout) * time.Second
	res, err := t.commandExecutor.RunWithTimeout(ctx, executor.Command{Args: args, Dir: dir}, timeout)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return tool.Output{}, ctx.Err()
		case errors.Is(err, exec.ErrNotFound):
			return tool.Output{}, ErrRipgrepMissing
		case res != nil && res.ExitCode == 1:
			// rg exits 1 when nothing matched.
		case res != nil && res.ExitCode > 1:
			return tool.Output{}, &CommandFailedError{Code: res.ExitCode, Stderr: strings.TrimSpace(res.Stderr)}
		default:
			return tool.Output{}, err
		}
	}

	var matches []Match
	if res != nil {
		matches = t.parseMatches(res.Stdout)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].File != matches[j].File {
			return matches[i].File < matches[j].File
		}
		return matches[i].LineNumber < matches[j].LineNumber
	})

	limit := req.Limit
	if limit == 0 {
		limit = t.config.Tools.DefaultSearchContentLimit
	}
	limit = min(limit, t.config.Tools.MaxSearchContentLimit)

	total := len(matches)
	start := min(req.Offset, total)
	end := min(start+limit, total)
	page := matches[start:end]

	var b strings.Builder
	for _, m := range page {
		fmt.Fprintf(&b, "%s:%d: %s\n", m.File, m.LineNumber, m.LineContent)
	}
	switch {
	case total == 0:
		b.WriteString("No matches found.\n")
	case end < total:
		fmt.Fprintf(&b, "[Showing matches %d-%d of %d. Use offset %d to continue.]\n", start+1, end, total, end)
	}
	if res != nil && res.Truncated {
		b.WriteString("[rg output was truncated; narrow the query or path for complete results.]\n")
	}

	return tool.Output{
		Content: b.String(),
		Display: tool.TextDisplay(fmt.Sprintf("%d matches for %q", total, req.Query)),
	}, nil
}

// rgEvent is the subset of rg --json output we read.
type rgEvent struct {
	Type string `json:"type"`
	Data struct {
		Path struct {
			Text string `json:"text"`
		} `json:"path"`
		Lines struct {
			Text string `json:"text"`
		} `json:"lines"`
		LineNumber int `json:"line_number"`
	} `json:"data"`
}

func (t *SearchContentTool) parseMatches(stdout string) []Match {
	maxLineLength := t.config.Tools.MaxLineLength

	var matches []Match
	scanner := bufio.NewScanner(strings.NewReader(stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), len(stdout)+1)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev rgEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil || ev.Type != "match" {
			// Truncated output can end in a partial line.
			continue
		}

		rel, err := filepath.Rel(t.root, ev.Data.Path.Text)
		if err != nil {
			rel = ev.Data.Path.Text
		}
		text := strings.TrimSpace(ev.Data.Lines.Text)
		if len(text) > maxLineLength {
			text = text[:maxLineLength] + "...[truncated]"
		}
		matches = append(matches, Match{
			File:        filepath.ToSlash(rel),
			LineNumber:  ev.Data.LineNumber,
			LineContent: text,
		})
	}
	return matches
}
