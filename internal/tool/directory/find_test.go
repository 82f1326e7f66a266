package directory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFile_ByName(t *testing.T) {
	root := newWorkspace(t)
	fsys, matcher, cfg := newTestDeps(t, root)
	ft := NewFindFileTool(fsys, matcher, cfg, root)

	out, err := ft.Execute(context.Background(), &FindFileInput{Pattern: "*.go"})

	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "pkg/b.go", "pkg/deep/c.go"}, paths(listEntries(t, out)))
}

func TestFindFile_ByRelativePath(t *testing.T) {
	root := newWorkspace(t)
	fsys, matcher, cfg := newTestDeps(t, root)
	ft := NewFindFileTool(fsys, matcher, cfg, root)

	out, err := ft.Execute(context.Background(), &FindFileInput{Pattern: "deep/*.go", Path: filepath.Join(root, "pkg")})

	require.NoError(t, err)
	assert.Equal(t, []string{"pkg/deep/c.go"}, paths(listEntries(t, out)))
}

func TestFindFile_MaxDepthAndIgnored(t *testing.T) {
	root := newWorkspace(t)
	fsys, matcher, cfg := newTestDeps(t, root)
	ft := NewFindFileTool(fsys, matcher, cfg, root)

	out, err := ft.Execute(context.Background(), &FindFileInput{Pattern: "*.go", MaxDepth: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "pkg/b.go"}, paths(listEntries(t, out)))

	out, err = ft.Execute(context.Background(), &FindFileInput{Pattern: "*.log"})
	require.NoError(t, err)
	assert.Empty(t, listEntries(t, out))
	assert.Contains(t, out.Content, "No files matching")

	out, err = ft.Execute(context.Background(), &FindFileInput{Pattern: "*.log", IncludeIgnored: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"debug.log"}, paths(listEntries(t, out)))
}

func TestFindFile_Limit(t *testing.T) {
	root := newWorkspace(t)
	fsys, matcher, cfg := newTestDeps(t, root)
	ft := NewFindFileTool(fsys, matcher, cfg, root)

	out, err := ft.Execute(context.Background(), &FindFileInput{Pattern: "*.go", Limit: 1})

	require.NoError(t, err)
	assert.Len(t, listEntries(t, out), 1)
	assert.Contains(t, out.Content, "Results capped at 1")
}

func TestFindFile_InvalidPattern(t *testing.T) {
	root := newWorkspace(t)
	fsys, matcher, cfg := newTestDeps(t, root)
	ft := NewFindFileTool(fsys, matcher, cfg, root)

	_, err := ft.Execute(context.Background(), &FindFileInput{Pattern: "[a-"})
	assert.ErrorIs(t, err, ErrInvalidPattern)
	assert.Equal(t, tool.CodeInvalidArguments, tool.CodeOf(err))
}
