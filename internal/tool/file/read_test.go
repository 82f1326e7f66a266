package file

import (
	"context"
	"strings"
	"testing"

	"github.com/Cyclone1070/warden/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile_WholeFile(t *testing.T) {
	root := t.TempDir()
	p := writeTestFile(t, root, "src/main.go", "package main\n\nfunc main() {}\n")
	cfg := newTestConfig()
	rt := NewReadFileTool(newTestFS(cfg), cfg, root)

	out, err := rt.Execute(context.Background(), &ReadFileInput{Path: p})

	require.NoError(t, err)
	assert.Equal(t, "package main\n\nfunc main() {}\n", out.Content)
	assert.Equal(t, tool.TextDisplay("Read src/main.go (3 lines)"), out.Display)
}

func TestReadFile_Range(t *testing.T) {
	root := t.TempDir()
	p := writeTestFile(t, root, "a.txt", "0123456789")
	cfg := newTestConfig()
	rt := NewReadFileTool(newTestFS(cfg), cfg, root)

	out, err := rt.Execute(context.Background(), &ReadFileInput{Path: p, Offset: ptr(2), Limit: ptr(3)})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.Content, "234"))
	assert.Contains(t, out.Content, "[Read bytes 2-5 of 10. Use offset 5 to continue.]")
}

func TestReadFile_Errors(t *testing.T) {
	root := t.TempDir()
	cfg := newTestConfig()
	rt := NewReadFileTool(newTestFS(cfg), cfg, root)

	binary := writeTestFile(t, root, "bin.dat", "abc\x00def")
	large := writeTestFile(t, root, "large.txt", strings.Repeat("x", 2048))

	tests := []struct {
		name  string
		input *ReadFileInput
		want  error
	}{
		{"missing", &ReadFileInput{Path: root + "/nope.txt"}, ErrFileMissing},
		{"directory", &ReadFileInput{Path: root}, ErrIsDirectory},
		{"binary", &ReadFileInput{Path: binary}, ErrBinaryFile},
		{"too large", &ReadFileInput{Path: large}, ErrFileTooLarge},
		{"negative offset", &ReadFileInput{Path: binary, Offset: ptr(-1)}, ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rt.Execute(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadFile_LargeFileInRanges(t *testing.T) {
	root := t.TempDir()
	p := writeTestFile(t, root, "large.txt", strings.Repeat("x", 2048))
	cfg := newTestConfig()
	rt := NewReadFileTool(newTestFS(cfg), cfg, root)

	out, err := rt.Execute(context.Background(), &ReadFileInput{Path: p, Limit: ptr(100)})

	require.NoError(t, err)
	assert.Contains(t, out.Content, "of 2048")
}

func TestReadFile_Declaration(t *testing.T) {
	cfg := newTestConfig()
	decl := NewReadFileTool(newTestFS(cfg), cfg, "/").Declaration()
	assert.Equal(t, "read_file", decl.Name)
	assert.True(t, decl.ReadOnly)
}
