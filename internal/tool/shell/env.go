package shell

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/warden/internal/tool/helper/content"
)

type envFileReader interface {
	ReadFile(path string) ([]byte, error)
}

// ParseEnvFile parses a .env file into KEY=VALUE pairs in file order.
// It supports:
// - KEY=VALUE and export KEY=VALUE
// - Comments starting with #
// - Empty lines
// - Single or double quoted values
//
// It does NOT support multi-line values or variable expansion.
func ParseEnvFile(fs envFileReader, path string) ([]string, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, &EnvFileReadError{Path: path, Cause: err}
	}

	var env []string
	for i, raw := range content.SplitLines(string(data)) {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			return nil, fmt.Errorf("%w: %s:%d: %s", ErrEnvFileParse, path, i+1, line)
		}

		value = strings.TrimSpace(value)
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		env = append(env, key+"="+value)
	}
	return env, nil
}
