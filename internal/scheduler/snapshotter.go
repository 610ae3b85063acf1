// Package scheduler runs the background persistence loop. The live
// state stays in memory; the snapshotter copies it to the configured
// store on a fixed interval and once more on shutdown.
package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/stash/internal/bookmarks"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/store"
	"github.com/MrSnakeDoc/stash/internal/users"
)

// Snapshotter periodically persists the user directory and bookmark
// storage.
type Snapshotter struct {
	directory *users.Directory
	storage   *bookmarks.Storage
	store     store.Store
	logger    logger.Logger
	interval  time.Duration
	stopCh    chan struct{}
	doneCh    chan struct{}
}

func NewSnapshotter(
	directory *users.Directory,
	storage *bookmarks.Storage,
	st store.Store,
	log logger.Logger,
	interval time.Duration,
) *Snapshotter {
	return &Snapshotter{
		directory: directory,
		storage:   storage,
		store:     st,
		logger:    log,
		interval:  interval,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the periodic snapshot loop.
func (s *Snapshotter) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	go func() {
		defer close(s.doneCh)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Snapshot(ctx)
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the loop and takes one final snapshot, so state mutated
// since the last tick survives a clean shutdown.
func (s *Snapshotter) Stop(ctx context.Context) {
	close(s.stopCh)
	<-s.doneCh
	s.Snapshot(ctx)
}

// Snapshot persists both state maps. Failures are logged, not fatal:
// the server keeps serving from memory and retries on the next tick.
func (s *Snapshotter) Snapshot(ctx context.Context) {
	start := time.Now()

	if err := s.store.SaveUsers(ctx, s.directory.Snapshot()); err != nil {
		s.logger.Error("failed to persist users", logger.Error(err))
		return
	}
	if err := s.store.SaveBookmarks(ctx, s.storage.Snapshot()); err != nil {
		s.logger.Error("failed to persist bookmarks", logger.Error(err))
		return
	}

	s.logger.Debug("snapshot persisted",
		logger.Int("users", s.directory.Count()),
		logger.Int("collections", s.storage.Count()),
		logger.Duration("elapsed", time.Since(start)))
}
