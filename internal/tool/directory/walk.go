package directory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// dirReader defines the filesystem operations needed for walking directories.
type dirReader interface {
	Stat(path string) (os.FileInfo, error)
	ReadDir(path string) ([]os.DirEntry, error)
}

// ignoreMatcher reports whether a workspace-relative path is gitignored.
type ignoreMatcher interface {
	ShouldIgnore(relPath string, isDir bool) bool
}

// errStop ends a walk early without reporting an error.
var errStop = errors.New("stop walk")

type walker struct {
	fs             dirReader
	ignore         ignoreMatcher
	root           string
	maxDepth       int // -1 = unlimited
	includeIgnored bool
}

// visitFunc receives each entry in depth-first, name-sorted order. Returning
// errStop ends the walk.
type visitFunc func(entry DirectoryEntry, depth int) error

// checkStart resolves the starting directory, defaulting to the workspace root.
func checkStart(fs dirReader, root, path string) (string, error) {
	if path == "" {
		path = root
	}
	info, err := fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileMissing, path)
		}
		return "", &StatError{Path: path, Cause: err}
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotADirectory, path)
	}
	return path, nil
}

// walk visits everything below dir. Symlinks are reported but never followed,
// so a link cycle cannot recurse.
func (w *walker) walk(ctx context.Context, dir string, depth int, visit visitFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		return &ListDirError{Path: dir, Cause: err}
	}

	for _, e := range entries {
		abs := filepath.Join(dir, e.Name())
		rel, err := filepath.Rel(w.root, abs)
		if err != nil {
			return fmt.Errorf("failed to calculate relative path for %s: %w", abs, err)
		}
		rel = filepath.ToSlash(rel)

		if !w.includeIgnored && w.ignore != nil && w.ignore.ShouldIgnore(rel, e.IsDir()) {
			continue
		}

		entry := DirectoryEntry{Path: rel, IsDir: e.IsDir()}
		if !e.IsDir() {
			if info, err := e.Info(); err == nil {
				entry.Size = info.Size()
			}
		}
		if err := visit(entry, depth); err != nil {
			return err
		}

		if e.IsDir() && (w.maxDepth < 0 || depth < w.maxDepth) {
			if err := w.walk(ctx, abs, depth+1, visit); err != nil {
				return err
			}
		}
	}
	return nil
}
