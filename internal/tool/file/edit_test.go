package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditFile_AppliesInOrder(t *testing.T) {
	root := t.TempDir()
	p := writeTestFile(t, root, "cfg.ini", "a=1\nb=2\n")
	cfg := newTestConfig()
	et := NewEditFileTool(newTestFS(cfg), cfg, root)

	out, err := et.Execute(context.Background(), &EditFileInput{Path: p, Operations: []EditOperation{
		{Before: "a=1", After: "a=10"},
		{Before: "a=10\n", After: "a=10\nc=3\n"},
		{Before: "", After: "d=4\n"},
	}})

	require.NoError(t, err)
	got, _ := os.ReadFile(p)
	assert.Equal(t, "a=10\nc=3\nb=2\nd=4\n", string(got))
	d := out.Display.(tool.DiffDisplay)
	assert.Equal(t, "cfg.ini", d.Path)
	assert.Equal(t, 3, d.AddedLines)
	assert.Equal(t, 1, d.RemovedLines)
}

func TestEditFile_PreservesCRLF(t *testing.T) {
	root := t.TempDir()
	p := writeTestFile(t, root, "win.txt", "one\r\ntwo\r\n")
	cfg := newTestConfig()
	et := NewEditFileTool(newTestFS(cfg), cfg, root)

	_, err := et.Execute(context.Background(), &EditFileInput{Path: p, Operations: []EditOperation{
		{Before: "one\ntwo", After: "one\nthree"},
	}})

	require.NoError(t, err)
	got, _ := os.ReadFile(p)
	assert.Equal(t, "one\r\nthree\r\n", string(got))
}

func TestEditFile_FailuresLeaveFileUntouched(t *testing.T) {
	root := t.TempDir()
	p := writeTestFile(t, root, "x.txt", "foo foo bar\n")
	cfg := newTestConfig()
	et := NewEditFileTool(newTestFS(cfg), cfg, root)

	tests := []struct {
		name string
		ops  []EditOperation
		want error
	}{
		{"not found", []EditOperation{{Before: "baz", After: "qux"}}, ErrSnippetNotFound},
		{"ambiguous", []EditOperation{{Before: "foo", After: "qux"}}, ErrReplacementCountMismatch},
		{"later op fails", []EditOperation{{Before: "bar", After: "baz"}, {Before: "nope", After: ""}}, ErrSnippetNotFound},
		{"append count", []EditOperation{{Before: "", After: "x", ExpectedReplacements: 2}}, ErrReplacementCountMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := et.Execute(context.Background(), &EditFileInput{Path: p, Operations: tt.ops})
			assert.ErrorIs(t, err, tt.want)
			got, _ := os.ReadFile(p)
			assert.Equal(t, "foo foo bar\n", string(got))
		})
	}
}

func TestEditFile_ExpectedReplacements(t *testing.T) {
	root := t.TempDir()
	p := writeTestFile(t, root, "x.txt", "foo foo bar\n")
	cfg := newTestConfig()
	et := NewEditFileTool(newTestFS(cfg), cfg, root)

	_, err := et.Execute(context.Background(), &EditFileInput{Path: p, Operations: []EditOperation{
		{Before: "foo", After: "qux", ExpectedReplacements: 2},
	}})

	require.NoError(t, err)
	got, _ := os.ReadFile(p)
	assert.Equal(t, "qux qux bar\n", string(got))
}

func TestEditFile_MissingFile(t *testing.T) {
	root := t.TempDir()
	cfg := newTestConfig()
	et := NewEditFileTool(newTestFS(cfg), cfg, root)

	_, err := et.Execute(context.Background(), &EditFileInput{
		Path:       filepath.Join(root, "none.txt"),
		Operations: []EditOperation{{Before: "a", After: "b"}},
	})

	assert.ErrorIs(t, err, ErrFileMissing)
}

func TestEditFile_EmptyOperations(t *testing.T) {
	cfg := newTestConfig()
	et := NewEditFileTool(newTestFS(cfg), cfg, t.TempDir())

	_, err := et.Execute(context.Background(), &EditFileInput{Path: "/x"})

	assert.Equal(t, tool.CodeInvalidArguments, tool.CodeOf(err))
}
