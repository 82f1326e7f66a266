package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestReadRange(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.txt", "0123456789")
	fsys := NewOSFileSystem(0)

	tests := []struct {
		name          string
		offset, limit int64
		want          string
	}{
		{"whole file", 0, 0, "0123456789"},
		{"offset only", 4, 0, "456789"},
		{"offset and limit", 2, 3, "234"},
		{"limit past end", 8, 10, "89"},
		{"offset past end", 20, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, size, err := fsys.ReadRange(p, tt.offset, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
			assert.Equal(t, int64(10), size)
		})
	}
}

func TestReadRange_Errors(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "big.txt", "0123456789")
	fsys := NewOSFileSystem(5)

	_, _, err := fsys.ReadRange(p, -1, 0)
	assert.ErrorIs(t, err, ErrInvalidOffset)

	_, _, err = fsys.ReadRange(p, 0, 0)
	var tooLarge *FileTooLargeError
	require.True(t, errors.As(err, &tooLarge))
	assert.Equal(t, int64(10), tooLarge.Size)

	data, _, err := fsys.ReadRange(p, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, "01234", string(data))

	_, _, err = fsys.ReadRange(dir, 0, 0)
	assert.ErrorIs(t, err, ErrIsDirectory)

	_, _, err = fsys.ReadRange(filepath.Join(dir, "missing"), 0, 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	fsys := NewOSFileSystem(0)
	target := filepath.Join(dir, "nested", "deeper", "out.txt")

	require.NoError(t, fsys.WriteFileAtomic(target, []byte("first"), 0o600))
	require.NoError(t, fsys.WriteFileAtomic(target, []byte("second"), 0o600))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := fsys.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteFileAtomic_TargetIsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	fsys := NewOSFileSystem(0)

	err := fsys.WriteFileAtomic(filepath.Join(dir, "sub"), []byte("x"), 0o644)

	var we *WriteError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, "rename", we.Stage)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
