package file

import (
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/pmezard/go-difflib/difflib"
)

// diffDisplay builds the unified diff shown to the user for a file change.
func diffDisplay(display, oldContent, newContent string) tool.DiffDisplay {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: "a/" + filepath.ToSlash(display),
		ToFile:   "b/" + filepath.ToSlash(display),
		Context:  3,
	}
	diff, _ := difflib.GetUnifiedDiffString(ud)

	d := tool.DiffDisplay{Path: display, Diff: diff}
	for line := range strings.SplitSeq(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			d.AddedLines++
		case strings.HasPrefix(line, "-"):
			d.RemovedLines++
		}
	}
	return d
}

// relPath returns p relative to root for display, or p itself when that fails.
func relPath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return rel
}
