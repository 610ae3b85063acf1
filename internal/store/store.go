// Package store defines the snapshot persistence contract. The server
// holds all state in memory; a Store only has to save and restore full
// snapshots of it.
package store

import (
	"context"

	"github.com/MrSnakeDoc/stash/internal/bookmarks"
	"github.com/MrSnakeDoc/stash/internal/domain"
)

// Store persists full snapshots of the user directory and the bookmark
// collections. Load methods return empty maps, not an error, when
// nothing has been saved yet.
type Store interface {
	SaveUsers(ctx context.Context, users map[string]*domain.User) error
	LoadUsers(ctx context.Context) (map[string]*domain.User, error)

	SaveBookmarks(ctx context.Context, collections map[string]*bookmarks.Collection) error
	LoadBookmarks(ctx context.Context) (map[string]*bookmarks.Collection, error)
}
