// Package bookmarks implements the per-user dual-indexed bookmark
// store: named groups of bookmarks plus an authoritative url index.
package bookmarks

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

// Failure kinds surfaced by collection operations. The protocol layer
// maps them to the fixed wire messages.
var (
	ErrGroupExists       = errors.New("group already exists")
	ErrNoSuchGroup       = errors.New("no such group")
	ErrDuplicateBookmark = errors.New("bookmark already in group")
	ErrNoSuchBookmark    = errors.New("no such bookmark")
)

// Collection is one user's bookmarks, held in two co-maintained
// indexes:
//
//   - groups: group name -> set of bookmarks, where set membership is
//     keyed by the bookmark *title* (see domain.Bookmark),
//   - urls: normalized URL -> bookmark, the authoritative key for
//     membership checks and removals.
//
// Every bookmark reachable from a group is also present in the url
// index and vice versa. Removal by URL drops the bookmark from every
// group that references it.
//
// All operations take the collection mutex: the executor loop is the
// only writer in the common case, but the cleanup sweep and the
// snapshotter reach the same collection from other goroutines.
type Collection struct {
	mu     sync.RWMutex
	groups map[string]map[string]*domain.Bookmark
	urls   map[string]*domain.Bookmark
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{
		groups: make(map[string]map[string]*domain.Bookmark),
		urls:   make(map[string]*domain.Bookmark),
	}
}

// NewGroup creates an empty group.
func (c *Collection) NewGroup(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.groups[name]; exists {
		return ErrGroupExists
	}
	c.groups[name] = make(map[string]*domain.Bookmark)
	return nil
}

// ContainsGroup reports whether the group exists.
func (c *Collection) ContainsGroup(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.groups[name]
	return ok
}

// Add inserts the bookmark into the group set and the url index.
func (c *Collection) Add(group string, bookmark *domain.Bookmark) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, ok := c.groups[group]
	if !ok {
		return ErrNoSuchGroup
	}
	if _, dup := set[bookmark.Title]; dup {
		return ErrDuplicateBookmark
	}

	set[bookmark.Title] = bookmark
	c.urls[bookmark.URL] = bookmark
	return nil
}

// RemoveFromGroup removes the bookmark with the given URL from one
// group and from the url index.
func (c *Collection) RemoveFromGroup(group, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, ok := c.groups[group]
	if !ok {
		return ErrNoSuchGroup
	}
	target, ok := c.urls[url]
	if !ok {
		return ErrNoSuchBookmark
	}

	delete(set, target.Title)
	delete(c.urls, url)
	return nil
}

// RemoveEverywhere resolves the URL through the url index and removes
// the bookmark's title from every group, then drops the url entry.
// Used by the cleanup sweep.
func (c *Collection) RemoveEverywhere(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	target, ok := c.urls[url]
	if !ok {
		return ErrNoSuchBookmark
	}

	for _, set := range c.groups {
		delete(set, target.Title)
	}
	delete(c.urls, url)
	return nil
}

// Group returns the bookmarks of one group, or ErrNoSuchGroup.
func (c *Collection) Group(name string) ([]*domain.Bookmark, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	set, ok := c.groups[name]
	if !ok {
		return nil, ErrNoSuchGroup
	}

	out := make([]*domain.Bookmark, 0, len(set))
	for _, bookmark := range set {
		out = append(out, bookmark)
	}
	return out, nil
}

// GroupNames returns the names of every group.
func (c *Collection) GroupNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.groups))
	for name := range c.groups {
		names = append(names, name)
	}
	return names
}

// URLs returns every URL in the authoritative index.
func (c *Collection) URLs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	urls := make([]string, 0, len(c.urls))
	for url := range c.urls {
		urls = append(urls, url)
	}
	return urls
}

// Count returns the number of bookmarks in the url index.
func (c *Collection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.urls)
}

// SearchByTitle returns the bookmarks whose title contains the needle.
// The match is a case-sensitive substring check against the url index.
func (c *Collection) SearchByTitle(needle string) []*domain.Bookmark {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*domain.Bookmark
	for _, bookmark := range c.urls {
		if strings.Contains(bookmark.Title, needle) {
			out = append(out, bookmark)
		}
	}
	return out
}

// SearchByTags returns the bookmarks where any tag is a member of the
// supplied tag set.
func (c *Collection) SearchByTags(tags []string) []*domain.Bookmark {
	wanted := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		wanted[tag] = struct{}{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*domain.Bookmark
	for _, bookmark := range c.urls {
		for _, tag := range bookmark.Tags {
			if _, ok := wanted[tag]; ok {
				out = append(out, bookmark)
				break
			}
		}
	}
	return out
}

// snapshotForm is the serialized shape: groups only. The url index is
// derivable and rebuilt on load.
type snapshotForm struct {
	Groups map[string][]*domain.Bookmark `json:"groups"`
}

// MarshalJSON serializes the collection as {"groups": {name: [bookmark]}}.
func (c *Collection) MarshalJSON() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	form := snapshotForm{Groups: make(map[string][]*domain.Bookmark, len(c.groups))}
	for name, set := range c.groups {
		list := make([]*domain.Bookmark, 0, len(set))
		for _, bookmark := range set {
			list = append(list, bookmark)
		}
		form.Groups[name] = list
	}

	return json.Marshal(form)
}

// UnmarshalJSON restores the collection and rebuilds the url index.
func (c *Collection) UnmarshalJSON(data []byte) error {
	var form snapshotForm
	if err := json.Unmarshal(data, &form); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.groups = make(map[string]map[string]*domain.Bookmark, len(form.Groups))
	c.urls = make(map[string]*domain.Bookmark)
	for name, list := range form.Groups {
		set := make(map[string]*domain.Bookmark, len(list))
		for _, bookmark := range list {
			set[bookmark.Title] = bookmark
			c.urls[bookmark.URL] = bookmark
		}
		c.groups[name] = set
	}
	return nil
}
