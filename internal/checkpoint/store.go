package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Cyclone1070/warden/internal/workflow"
	"github.com/google/uuid"
)

const fileExt = ".json"

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	ReadDir(path string) ([]os.DirEntry, error)
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error
}

// FileStore keeps one JSON file per session under dir.
type FileStore struct {
	dir    string
	fs     fileSystem
	logger *slog.Logger
	now    func() time.Time
}

// NewFileStore creates a store rooted at dir. The directory is created on first save.
func NewFileStore(dir string, fsys fileSystem, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileStore{dir: dir, fs: fsys, logger: logger, now: time.Now}
}

// NewSessionID returns a fresh random session id.
func NewSessionID() string {
	return uuid.NewString()
}

// Save writes snap atomically, replacing any earlier checkpoint of the same session.
// SavedAt is stamped when zero.
func (s *FileStore) Save(ctx context.Context, snap workflow.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(snap.SessionID)
	if err != nil {
		return err
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = s.now().UTC()
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint %s: %w", snap.SessionID, err)
	}
	if err := s.fs.WriteFileAtomic(path, data, 0o600); err != nil {
		return err
	}

	s.logger.Debug("checkpoint saved", "session_id", snap.SessionID, "messages", len(snap.Messages))
	return nil
}

// Load reads the checkpoint of one session.
func (s *FileStore) Load(ctx context.Context, sessionID string) (workflow.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return workflow.Snapshot{}, err
	}
	path, err := s.path(sessionID)
	if err != nil {
		return workflow.Snapshot{}, err
	}
	return s.read(path)
}

// Latest returns the most recently saved checkpoint in the store.
func (s *FileStore) Latest(ctx context.Context) (workflow.Snapshot, error) {
	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return workflow.Snapshot{}, ErrNotFound
		}
		return workflow.Snapshot{}, fmt.Errorf("failed to list checkpoints in %s: %w", s.dir, err)
	}

	var (
		latestPath string
		latestMod  time.Time
	)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return workflow.Snapshot{}, err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if latestPath == "" || info.ModTime().After(latestMod) {
			latestPath = filepath.Join(s.dir, e.Name())
			latestMod = info.ModTime()
		}
	}
	if latestPath == "" {
		return workflow.Snapshot{}, ErrNotFound
	}
	return s.read(latestPath)
}

func (s *FileStore) read(path string) (workflow.Snapshot, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return workflow.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return workflow.Snapshot{}, fmt.Errorf("failed to read checkpoint %s: %w", path, err)
	}

	var snap workflow.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return workflow.Snapshot{}, &CorruptError{Path: path, Cause: err}
	}
	return snap, nil
}

func (s *FileStore) path(sessionID string) (string, error) {
	if !sessionIDPattern.MatchString(sessionID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSessionID, sessionID)
	}
	return filepath.Join(s.dir, sessionID+fileExt), nil
}
