package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Cyclone1070/warden/internal/config"
	slogmulti "github.com/samber/slog-multi"
)

// Logger is the root logger together with the resources behind it.
type Logger struct {
	*slog.Logger
	Level *slog.LevelVar
	file  *os.File
}

// New builds the root logger. Records go as JSON to cfg.File when set, and as
// text to stderr when stderr is non-nil. With neither, records are discarded.
func New(cfg config.LogConfig, stderr io.Writer) (*Logger, error) {
	level := new(slog.LevelVar)
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var (
		handlers []slog.Handler
		file     *os.File
	)
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		file = f
		handlers = append(handlers, slog.NewJSONHandler(f, opts))
	}
	if stderr != nil {
		handlers = append(handlers, slog.NewTextHandler(stderr, opts))
	}

	var handler slog.Handler = slog.DiscardHandler
	if len(handlers) > 0 {
		handler = slogmulti.Fanout(handlers...)
	}

	return &Logger{Logger: slog.New(handler), Level: level, file: file}, nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

