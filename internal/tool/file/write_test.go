package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_CreatesWithParents(t *testing.T) {
	root := t.TempDir()
	cfg := newTestConfig()
	wt := NewWriteFileTool(newTestFS(cfg), cfg, root)
	p := filepath.Join(root, "a", "b", "new.txt")

	out, err := wt.Execute(context.Background(), &WriteFileInput{Path: p, Content: "one\ntwo\n"})

	require.NoError(t, err)
	got, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(got))
	assert.Equal(t, "Created a/b/new.txt (8 bytes)", out.Content)

	d, ok := out.Display.(tool.DiffDisplay)
	require.True(t, ok)
	assert.Equal(t, 2, d.AddedLines)
	assert.Equal(t, 0, d.RemovedLines)
}

func TestWriteFile_OverwriteKeepsModeAndDiffs(t *testing.T) {
	root := t.TempDir()
	p := writeTestFile(t, root, "run.sh", "echo old\n")
	require.NoError(t, os.Chmod(p, 0o755))
	cfg := newTestConfig()
	wt := NewWriteFileTool(newTestFS(cfg), cfg, root)

	out, err := wt.Execute(context.Background(), &WriteFileInput{Path: p, Content: "echo new\n"})

	require.NoError(t, err)
	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	d := out.Display.(tool.DiffDisplay)
	assert.Equal(t, 1, d.AddedLines)
	assert.Equal(t, 1, d.RemovedLines)
	assert.Contains(t, d.Diff, "-echo old")
	assert.Contains(t, d.Diff, "+echo new")
}

func TestWriteFile_Refusals(t *testing.T) {
	root := t.TempDir()
	cfg := newTestConfig()
	wt := NewWriteFileTool(newTestFS(cfg), cfg, root)

	_, err := wt.Execute(context.Background(), &WriteFileInput{Path: filepath.Join(root, "b"), Content: "a\x00b"})
	assert.ErrorIs(t, err, ErrBinaryFile)

	_, err = wt.Execute(context.Background(), &WriteFileInput{Path: filepath.Join(root, "c"), Content: strings.Repeat("x", 2048)})
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = wt.Execute(context.Background(), &WriteFileInput{Path: root, Content: "x"})
	assert.ErrorIs(t, err, ErrIsDirectory)
}
