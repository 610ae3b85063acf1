package bookmarks

import "sync"

// Storage maps usernames to their collections. A collection is created
// lazily ("hooked") on first access and never deleted in normal
// operation.
type Storage struct {
	mu          sync.RWMutex
	collections map[string]*Collection
}

// NewStorage creates an empty storage.
func NewStorage() *Storage {
	return &Storage{
		collections: make(map[string]*Collection),
	}
}

// Hook returns the user's collection, creating it if absent.
func (s *Storage) Hook(username string) *Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[username]; ok {
		return c
	}
	c := NewCollection()
	s.collections[username] = c
	return c
}

// Get retrieves the user's collection without creating it.
func (s *Storage) Get(username string) (*Collection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[username]
	return c, ok
}

// Count returns the number of hooked collections.
func (s *Storage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.collections)
}

// BookmarkCount returns the total number of bookmarks across all
// collections.
func (s *Storage) BookmarkCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, c := range s.collections {
		total += c.Count()
	}
	return total
}

// Snapshot returns the storage contents keyed by username. The
// collections are shared pointers; their own MarshalJSON locks per
// collection during serialization.
func (s *Storage) Snapshot() map[string]*Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*Collection, len(s.collections))
	for username, c := range s.collections {
		out[username] = c
	}
	return out
}

// Restore replaces the storage contents with the given snapshot.
func (s *Storage) Restore(snapshot map[string]*Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections = make(map[string]*Collection, len(snapshot))
	for username, c := range snapshot {
		if c == nil {
			c = NewCollection()
		}
		s.collections[username] = c
	}
}
