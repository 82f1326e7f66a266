package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Cyclone1070/warden/internal/checkpoint"
	"github.com/Cyclone1070/warden/internal/config"
	provider "github.com/Cyclone1070/warden/internal/provider/models"
	osfs "github.com/Cyclone1070/warden/internal/tool/service/fs"
	"github.com/Cyclone1070/warden/internal/workflow"
	"github.com/Cyclone1070/warden/internal/workflow/loop"
)

// snapshotStore is the checkpoint API main needs.
type snapshotStore interface {
	loop.Checkpointer
	Load(ctx context.Context, sessionID string) (workflow.Snapshot, error)
	Latest(ctx context.Context) (workflow.Snapshot, error)
}

type session struct {
	id      string
	history []provider.Message
	// store is a nil interface when checkpointing is off.
	store   loop.Checkpointer
}

func openSession(ctx context.Context, cfg *config.Config, f flags, fsys *osfs.OSFileSystem, logger *slog.Logger) (session, error) {
	if !cfg.Checkpoint.Enabled || cfg.Checkpoint.Dir == "" {
		if f.resume || f.sessionID != "" {
			return session{}, errors.New("cannot resume: checkpointing is disabled in config")
		}
		return session{id: checkpoint.NewSessionID()}, nil
	}
	return resumeSession(ctx, checkpoint.NewFileStore(cfg.Checkpoint.Dir, fsys, logger), f, logger)
}

func resumeSession(ctx context.Context, store snapshotStore, f flags, logger *slog.Logger) (session, error) {
	switch {
	case f.sessionID != "":
		snap, err := store.Load(ctx, f.sessionID)
		if err != nil {
			return session{}, fmt.Errorf("failed to resume session %s: %w", f.sessionID, err)
		}
		return session{id: snap.SessionID, history: snap.Messages, store: store}, nil

	case f.resume:
		snap, err := store.Latest(ctx)
		if errors.Is(err, checkpoint.ErrNotFound) {
			logger.Info("no previous session, starting fresh")
			break
		}
		if err != nil {
			return session{}, fmt.Errorf("failed to resume latest session: %w", err)
		}
		return session{id: snap.SessionID, history: snap.Messages, store: store}, nil
	}
	return session{id: checkpoint.NewSessionID(), store: store}, nil
}
