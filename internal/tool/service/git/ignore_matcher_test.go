package git

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFileSystem struct {
	files   map[string]string
	readErr error
}

func (m *mockFileSystem) ReadFile(path string) ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(data), nil
}

func withGitignore(content string) *mockFileSystem {
	return &mockFileSystem{files: map[string]string{"/workspace/.gitignore": content}}
}

func TestShouldIgnore(t *testing.T) {
	m, err := NewIgnoreMatcher("/workspace", withGitignore("# build output\n*.log\n*.tmp\nbuild/\n\n"))
	require.NoError(t, err)

	tests := []struct {
		path   string
		isDir  bool
		ignore bool
	}{
		{"test.log", false, true},
		{"file.tmp", false, true},
		{"test.txt", false, false},
		{".test.log", false, true},
		{".keep", false, false},
		{"build", true, true},
		{"build", false, false},
		{"src/app.log", false, true},
		{".git", true, true},
		{"foo//bar.log", false, true},
		{"./baz.log", false, true},
		{"# build output", false, false},
		{"", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.ignore, m.ShouldIgnore(tt.path, tt.isDir))
		})
	}
}

func TestNewIgnoreMatcher_MissingGitignore(t *testing.T) {
	m, err := NewIgnoreMatcher("/workspace", &mockFileSystem{})

	require.NoError(t, err)
	assert.False(t, m.ShouldIgnore("test.log", false))
	assert.True(t, m.ShouldIgnore(".git", true))
}

func TestNewIgnoreMatcher_ReadError(t *testing.T) {
	fsys := withGitignore("*.log")
	fsys.readErr = errors.New("disk failure")

	_, err := NewIgnoreMatcher("/workspace", fsys)

	var gitErr *GitignoreReadError
	require.True(t, errors.As(err, &gitErr))
	assert.Equal(t, "/workspace/.gitignore", gitErr.Path)
}

func TestShouldIgnore_WindowsLineEndings(t *testing.T) {
	m, err := NewIgnoreMatcher("/workspace", withGitignore("*.log\r\nnode_modules\r\n"))
	require.NoError(t, err)

	assert.True(t, m.ShouldIgnore("app.log", false))
	assert.True(t, m.ShouldIgnore("node_modules/foo", false))
}

func TestNoOpMatcher(t *testing.T) {
	assert.False(t, NoOpMatcher{}.ShouldIgnore("anything.log", false))
}
