// Package users holds the persistent username -> account mapping.
package users

import (
	"sync"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

// Directory is the in-memory user directory. It is shared between the
// command executor and the background snapshotter, so every access goes
// through the mutex even though the common path is single-threaded.
type Directory struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		users: make(map[string]*domain.User),
	}
}

// Get retrieves a user by username.
func (d *Directory) Get(username string) (*domain.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[username]
	return user, ok
}

// Add inserts a user if the username is free. Returns false when the
// name is already taken (first write wins).
func (d *Directory) Add(user *domain.User) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.users[user.Username]; exists {
		return false
	}
	d.users[user.Username] = user
	return true
}

// Contains reports whether a username is registered.
func (d *Directory) Contains(username string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.users[username]
	return ok
}

// Count returns the number of registered users.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.users)
}

// Snapshot returns a copy of the directory contents keyed by username,
// suitable for serialization.
func (d *Directory) Snapshot() map[string]*domain.User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]*domain.User, len(d.users))
	for name, user := range d.users {
		u := *user
		out[name] = &u
	}
	return out
}

// Restore replaces the directory contents with the given snapshot.
func (d *Directory) Restore(snapshot map[string]*domain.User) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.users = make(map[string]*domain.User, len(snapshot))
	for name, user := range snapshot {
		u := *user
		d.users[name] = &u
	}
}
