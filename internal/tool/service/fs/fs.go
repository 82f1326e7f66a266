package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem implements file access for the tools on the local filesystem.
// Paths are expected to be validated against the workspace root beforehand.
type OSFileSystem struct {
	maxFileSize int64
}

// NewOSFileSystem creates an OSFileSystem. maxFileSize bounds reads; zero means unbounded.
func NewOSFileSystem(maxFileSize int64) *OSFileSystem {
	return &OSFileSystem{maxFileSize: maxFileSize}
}

// Stat returns file info for a path (follows symlinks).
func (f *OSFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads a whole file, subject to the size limit.
func (f *OSFileSystem) ReadFile(path string) ([]byte, error) {
	data, _, err := f.ReadRange(path, 0, 0)
	return data, err
}

// ReadRange reads up to limit bytes starting at offset and also returns the
// file size. A zero limit reads to the end of the file, which is refused when
// the remainder exceeds the size limit.
func (f *OSFileSystem) ReadRange(path string, offset, limit int64) ([]byte, int64, error) {
	if offset < 0 || limit < 0 {
		return nil, 0, fmt.Errorf("%w: offset %d, limit %d", ErrInvalidOffset, offset, limit)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, 0, err
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	size := info.Size()
	if offset >= size {
		return []byte{}, size, nil
	}

	remaining := size - offset
	if limit == 0 {
		if f.maxFileSize > 0 && remaining > f.maxFileSize {
			return nil, size, &FileTooLargeError{Path: path, Size: size, Limit: f.maxFileSize}
		}
		limit = remaining
	}

	data, err := io.ReadAll(io.NewSectionReader(file, offset, min(limit, remaining)))
	if err != nil {
		return nil, size, err
	}
	return data, size, nil
}

// WriteFileAtomic writes data through a temp file in the target directory and
// renames it into place, so readers never see a partial file. Missing parent
// directories are created.
func (f *OSFileSystem) WriteFileAtomic(path string, data []byte, perm fs.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Path: path, Stage: "create", Cause: err}
	}

	tmp, err := os.CreateTemp(dir, ".warden-tmp-*")
	if err != nil {
		return &WriteError{Path: path, Stage: "create", Cause: err}
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return &WriteError{Path: path, Stage: "write", Cause: err}
	}
	if err := tmp.Sync(); err != nil {
		return &WriteError{Path: path, Stage: "sync", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: path, Stage: "close", Cause: err}
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return &WriteError{Path: path, Stage: "chmod", Cause: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &WriteError{Path: path, Stage: "rename", Cause: err}
	}
	return nil
}

// ReadDir lists a directory sorted by name.
func (f *OSFileSystem) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}
