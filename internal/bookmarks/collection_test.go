package bookmarks

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

func TestNewGroup(t *testing.T) {
	c := NewCollection()

	if err := c.NewGroup("dev"); err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}
	if !c.ContainsGroup("dev") {
		t.Error("ContainsGroup() = false after NewGroup()")
	}

	if err := c.NewGroup("dev"); !errors.Is(err, ErrGroupExists) {
		t.Errorf("duplicate NewGroup() error = %v, want ErrGroupExists", err)
	}
}

func TestAdd(t *testing.T) {
	c := NewCollection()
	c.NewGroup("dev")

	bm := domain.NewBookmark("Go Blog", "https://go.dev/blog", []string{"go"})
	if err := c.Add("dev", bm); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if got := c.Count(); got != 1 {
		t.Errorf("Count() = %d, want 1", got)
	}

	if err := c.Add("missing", bm); !errors.Is(err, ErrNoSuchGroup) {
		t.Errorf("Add() to missing group error = %v, want ErrNoSuchGroup", err)
	}
	if err := c.Add("dev", bm); !errors.Is(err, ErrDuplicateBookmark) {
		t.Errorf("duplicate Add() error = %v, want ErrDuplicateBookmark", err)
	}
}

// Membership inside a group is keyed by title, so a second bookmark
// with the same title counts as a duplicate even under a different URL.
func TestAddTitleIdentity(t *testing.T) {
	c := NewCollection()
	c.NewGroup("dev")

	c.Add("dev", domain.NewBookmark("Docs", "https://a.example", nil))
	err := c.Add("dev", domain.NewBookmark("Docs", "https://b.example", nil))
	if !errors.Is(err, ErrDuplicateBookmark) {
		t.Errorf("Add() with duplicate title error = %v, want ErrDuplicateBookmark", err)
	}
}

func TestRemoveFromGroup(t *testing.T) {
	c := NewCollection()
	c.NewGroup("dev")
	c.Add("dev", domain.NewBookmark("Go Blog", "https://go.dev/blog", nil))

	if err := c.RemoveFromGroup("missing", "https://go.dev/blog"); !errors.Is(err, ErrNoSuchGroup) {
		t.Errorf("RemoveFromGroup() missing group error = %v, want ErrNoSuchGroup", err)
	}
	if err := c.RemoveFromGroup("dev", "https://nope.example"); !errors.Is(err, ErrNoSuchBookmark) {
		t.Errorf("RemoveFromGroup() missing url error = %v, want ErrNoSuchBookmark", err)
	}

	if err := c.RemoveFromGroup("dev", "https://go.dev/blog"); err != nil {
		t.Fatalf("RemoveFromGroup() error = %v", err)
	}
	if got := c.Count(); got != 0 {
		t.Errorf("Count() after removal = %d, want 0", got)
	}

	group, err := c.Group("dev")
	if err != nil {
		t.Fatalf("Group() error = %v", err)
	}
	if len(group) != 0 {
		t.Errorf("group still holds %d bookmarks after removal", len(group))
	}
}

// Removing a bookmark and re-adding it restores the previous state,
// including visibility in both indexes.
func TestRemoveThenReAdd(t *testing.T) {
	c := NewCollection()
	c.NewGroup("dev")
	bm := domain.NewBookmark("Go Blog", "https://go.dev/blog", []string{"go"})

	c.Add("dev", bm)
	c.RemoveFromGroup("dev", bm.URL)

	if err := c.Add("dev", bm); err != nil {
		t.Fatalf("re-Add() after removal error = %v", err)
	}
	if got := c.Count(); got != 1 {
		t.Errorf("Count() = %d, want 1", got)
	}
	if got := len(c.SearchByTitle("Go Blog")); got != 1 {
		t.Errorf("SearchByTitle() found %d, want 1", got)
	}
}

func TestRemoveEverywhere(t *testing.T) {
	c := NewCollection()
	// Each insert carries its own instance, the way repeated add-to
	// fetches produce fresh bookmarks for the same page.
	for _, group := range []string{"dev", "reading", "archive"} {
		c.NewGroup(group)
		c.Add(group, domain.NewBookmark("Go Blog", "https://go.dev/blog", nil))
	}

	if err := c.RemoveEverywhere("https://go.dev/blog"); err != nil {
		t.Fatalf("RemoveEverywhere() error = %v", err)
	}

	for _, group := range []string{"dev", "reading", "archive"} {
		list, err := c.Group(group)
		if err != nil {
			t.Fatalf("Group(%s) error = %v", group, err)
		}
		if len(list) != 0 {
			t.Errorf("group %s still holds the bookmark", group)
		}
	}
	if got := c.Count(); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}

	if err := c.RemoveEverywhere("https://go.dev/blog"); !errors.Is(err, ErrNoSuchBookmark) {
		t.Errorf("second RemoveEverywhere() error = %v, want ErrNoSuchBookmark", err)
	}
}

// Group membership is keyed by title, so RemoveEverywhere clears the
// resolved title from every group even when the instances differ, as
// they do after a snapshot restore.
func TestRemoveEverywhereAfterRestore(t *testing.T) {
	c := NewCollection()
	c.NewGroup("dev")
	c.NewGroup("reading")
	c.Add("dev", domain.NewBookmark("Go Blog", "https://go.dev/blog", nil))
	c.Add("reading", domain.NewBookmark("Go Blog", "https://go.dev/blog", nil))

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	restored := NewCollection()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if err := restored.RemoveEverywhere("https://go.dev/blog"); err != nil {
		t.Fatalf("RemoveEverywhere() error = %v", err)
	}
	for _, group := range []string{"dev", "reading"} {
		list, _ := restored.Group(group)
		if len(list) != 0 {
			t.Errorf("group %s still holds %d bookmark(s) after RemoveEverywhere", group, len(list))
		}
	}
}

func TestSearchByTitle(t *testing.T) {
	c := NewCollection()
	c.NewGroup("dev")
	c.Add("dev", domain.NewBookmark("The Go Blog", "https://go.dev/blog", nil))
	c.Add("dev", domain.NewBookmark("Rust Book", "https://doc.rust-lang.org", nil))

	if got := len(c.SearchByTitle("Go")); got != 1 {
		t.Errorf("SearchByTitle(\"Go\") found %d, want 1", got)
	}
	// Matching is case-sensitive.
	if got := len(c.SearchByTitle("go")); got != 0 {
		t.Errorf("SearchByTitle(\"go\") found %d, want 0", got)
	}
	if got := len(c.SearchByTitle("o")); got != 2 {
		t.Errorf("SearchByTitle(\"o\") found %d, want 2", got)
	}
}

func TestSearchByTags(t *testing.T) {
	c := NewCollection()
	c.NewGroup("dev")
	c.Add("dev", domain.NewBookmark("Go Blog", "https://go.dev/blog", []string{"golang", "blog"}))
	c.Add("dev", domain.NewBookmark("Rust Book", "https://doc.rust-lang.org", []string{"rust", "book"}))

	if got := len(c.SearchByTags([]string{"golang"})); got != 1 {
		t.Errorf("SearchByTags([golang]) found %d, want 1", got)
	}
	if got := len(c.SearchByTags([]string{"golang", "rust"})); got != 2 {
		t.Errorf("SearchByTags([golang rust]) found %d, want 2", got)
	}
	if got := len(c.SearchByTags([]string{"python"})); got != 0 {
		t.Errorf("SearchByTags([python]) found %d, want 0", got)
	}
}

func TestCollectionJSONRoundTrip(t *testing.T) {
	c := NewCollection()
	c.NewGroup("dev")
	c.NewGroup("empty")
	c.Add("dev", domain.NewBookmark("Go Blog", "https://go.dev/blog", []string{"golang"}))

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	restored := NewCollection()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if !restored.ContainsGroup("empty") {
		t.Error("empty group lost in round trip")
	}
	if got := restored.Count(); got != 1 {
		t.Errorf("Count() after round trip = %d, want 1", got)
	}

	// The url index must be rebuilt, not just the groups.
	if err := restored.RemoveEverywhere("https://go.dev/blog"); err != nil {
		t.Errorf("RemoveEverywhere() on restored collection error = %v", err)
	}
}
