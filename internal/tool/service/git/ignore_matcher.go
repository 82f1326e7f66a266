package git

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/warden/internal/tool/helper/content"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// GitignoreReadError is returned when .gitignore exists but cannot be read.
type GitignoreReadError struct {
	Path  string
	Cause error
}

func (e *GitignoreReadError) Error() string {
	return fmt.Sprintf("failed to read .gitignore at %s: %v", e.Path, e.Cause)
}
func (e *GitignoreReadError) Unwrap() error { return e.Cause }

type fileReader interface {
	ReadFile(path string) ([]byte, error)
}

// IgnoreMatcher answers whether a workspace-relative path is hidden by the
// root .gitignore. The .git directory is always ignored.
type IgnoreMatcher struct {
	matcher gitignore.Matcher
}

// NewIgnoreMatcher loads .gitignore from the workspace root. A missing file is not an error.
func NewIgnoreMatcher(workspaceRoot string, fsys fileReader) (*IgnoreMatcher, error) {
	patterns := []gitignore.Pattern{gitignore.ParsePattern(".git/", nil)}

	path := filepath.Join(workspaceRoot, ".gitignore")
	data, err := fsys.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, &GitignoreReadError{Path: path, Cause: err}
	default:
		for _, line := range content.SplitLines(string(data)) {
			line = strings.TrimRight(line, " \t")
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			patterns = append(patterns, gitignore.ParsePattern(line, nil))
		}
	}

	return &IgnoreMatcher{matcher: gitignore.NewMatcher(patterns)}, nil
}

// ShouldIgnore reports whether relPath matches the ignore rules.
func (m *IgnoreMatcher) ShouldIgnore(relPath string, isDir bool) bool {
	segments := splitPath(relPath)
	if len(segments) == 0 {
		return false
	}
	return m.matcher.Match(segments, isDir)
}

// splitPath turns a relative path into segments, dropping empty and "." parts.
func splitPath(path string) []string {
	var segments []string
	for part := range strings.SplitSeq(filepath.ToSlash(path), "/") {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}

// NoOpMatcher never ignores anything.
type NoOpMatcher struct{}

// ShouldIgnore always returns false.
func (NoOpMatcher) ShouldIgnore(string, bool) bool {
	return false
}
