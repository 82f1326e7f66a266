package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// CanonicaliseRoot makes a workspace root absolute and resolves its symlinks.
// The root must exist and be a directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &RootError{Root: root, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &RootError{Root: absRoot, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &RootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &RootError{Root: resolved, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, resolved)}
	}
	return resolved, nil
}

// maxSymlinks matches the Linux kernel's limit on links followed in one lookup.
const maxSymlinks = 40

// Canonicalise returns the real filesystem path for p.
// The path is walked one component at a time the way the kernel does it:
// a symlink is replaced by its target before any later ".." is applied, so
// link/.. means the parent of the link's target, not the directory holding
// the link. Once a component does not exist the rest of the path is joined
// on unresolved; a ".." past that point cannot be resolved and is an error.
func Canonicalise(p string) (string, error) {
	if !filepath.IsAbs(p) {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		p = wd + string(filepath.Separator) + p
	}

	pending := splitPath(p)
	resolved := string(filepath.Separator)
	links := 0

	for len(pending) > 0 {
		name := pending[0]
		pending = pending[1:]

		switch name {
		case "", ".":
			continue
		case "..":
			resolved = filepath.Dir(resolved)
			continue
		}

		next := filepath.Join(resolved, name)
		info, err := os.Lstat(next)
		if err != nil {
			if !isMissing(err) {
				return "", err
			}
			return joinMissing(next, pending)
		}

		if info.Mode()&fs.ModeSymlink == 0 {
			resolved = next
			continue
		}

		links++
		if links > maxSymlinks {
			return "", fmt.Errorf("%w: %s", ErrSymlinkLoop, p)
		}
		target, err := os.Readlink(next)
		if err != nil {
			return "", err
		}
		if filepath.IsAbs(target) {
			resolved = string(filepath.Separator)
		}
		pending = append(splitPath(target), pending...)
	}
	return resolved, nil
}

func joinMissing(base string, rest []string) (string, error) {
	parts := []string{base}
	for _, name := range rest {
		switch name {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("%w: %s/..", ErrUnresolvablePath, base)
		}
		parts = append(parts, name)
	}
	return filepath.Join(parts...), nil
}

func splitPath(p string) []string {
	return strings.Split(p, string(filepath.Separator))
}

// ResolveWithin canonicalises path and checks that it stays inside root.
// path must be absolute. root is canonicalised as well, so callers may pass
// either the raw or the canonical workspace root.
func ResolveWithin(path, root string) (string, error) {
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: %s", ErrRelativePath, path)
	}

	canonicalRoot, err := CanonicaliseRoot(root)
	if err != nil {
		return "", err
	}

	resolved, err := Canonicalise(path)
	if err != nil {
		return "", &PathEscapeError{Path: path, Root: canonicalRoot}
	}

	if !IsWithin(resolved, canonicalRoot) {
		return "", &PathEscapeError{Path: path, Resolved: resolved, Root: canonicalRoot}
	}
	return resolved, nil
}

// ValidatePath reports whether path resolves to root or a descendant of root.
func ValidatePath(path, root string) bool {
	_, err := ResolveWithin(path, root)
	return err == nil
}

// IsWithin compares two already-canonical paths. The prefix check is bounded
// by a separator so /a/bc is not treated as inside /a/b.
func IsWithin(path, root string) bool {
	if path == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
