package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Cyclone1070/warden/internal/config"
	"github.com/Cyclone1070/warden/internal/tool/service/fs"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Tools.MaxFileSize = 1024
	return cfg
}

func newTestFS(cfg *config.Config) *fs.OSFileSystem {
	return fs.NewOSFileSystem(cfg.Tools.MaxFileSize)
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func ptr(v int64) *int64 { return &v }
