// Package file persists snapshots as JSON files on local disk. Writes
// go through a temp file and a rename, so a crash mid-write leaves the
// previous snapshot intact.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MrSnakeDoc/stash/internal/bookmarks"
	"github.com/MrSnakeDoc/stash/internal/domain"
)

// Store writes users and bookmarks to two JSON files.
type Store struct {
	usersPath     string
	bookmarksPath string
}

func New(usersPath, bookmarksPath string) *Store {
	return &Store{
		usersPath:     usersPath,
		bookmarksPath: bookmarksPath,
	}
}

func (s *Store) SaveUsers(_ context.Context, users map[string]*domain.User) error {
	return writeJSON(s.usersPath, users)
}

func (s *Store) LoadUsers(_ context.Context) (map[string]*domain.User, error) {
	users := make(map[string]*domain.User)
	if err := readJSON(s.usersPath, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) SaveBookmarks(_ context.Context, collections map[string]*bookmarks.Collection) error {
	return writeJSON(s.bookmarksPath, collections)
}

func (s *Store) LoadBookmarks(_ context.Context) (map[string]*bookmarks.Collection, error) {
	collections := make(map[string]*bookmarks.Collection)
	if err := readJSON(s.bookmarksPath, &collections); err != nil {
		return nil, err
	}
	return collections, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil // No snapshot yet, start empty
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return nil
}
