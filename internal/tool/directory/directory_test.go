package directory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Cyclone1070/warden/internal/config"
	"github.com/Cyclone1070/warden/internal/tool/service/fs"
	"github.com/Cyclone1070/warden/internal/tool/service/git"
	"github.com/stretchr/testify/require"
)

// newWorkspace builds:
//
//	.gitignore  (ignores *.log and build/)
//	a.go
//	debug.log
//	build/out.bin
//	pkg/b.go
//	pkg/deep/c.go
func newWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		".gitignore":    "*.log\nbuild/\n",
		"a.go":          "package a\n",
		"debug.log":     "noise\n",
		"build/out.bin": "bin",
		"pkg/b.go":      "package pkg\n",
		"pkg/deep/c.go": "package deep\n",
	}
	for name, body := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return root
}

func newTestDeps(t *testing.T, root string) (*fs.OSFileSystem, *git.IgnoreMatcher, *config.Config) {
	t.Helper()
	fsys := fs.NewOSFileSystem(0)
	matcher, err := git.NewIgnoreMatcher(root, fsys)
	require.NoError(t, err)
	cfg := config.DefaultConfig()
	cfg.Tools.DefaultListDirectoryLimit = 100
	cfg.Tools.MaxListDirectoryLimit = 200
	return fsys, matcher, cfg
}

func paths(entries []DirectoryEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path)
	}
	return out
}
