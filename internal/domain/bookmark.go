package domain

import (
	"fmt"
	"strings"
)

// MaxTagsPrint caps how many tags are rendered for a single bookmark.
const MaxTagsPrint = 5

// Bookmark represents one saved link inside a user's collection.
//
// Identity for group membership is the Title alone: two bookmarks with
// the same title are the same entity even when their URLs differ. The
// URL is the authoritative key of the per-user url index instead. The
// collection semantics and their tests depend on this split; do not
// collapse the two keys into one.
type Bookmark struct {
	// Title is the page title, extracted from the fetched document.
	Title string `json:"title"`

	// URL is the full normalized link.
	URL string `json:"url"`

	// Tags are keyword tags ranked by frequency at generation time.
	Tags []string `json:"tags"`
}

// NewBookmark builds a bookmark from its parts.
func NewBookmark(title, url string, tags []string) *Bookmark {
	return &Bookmark{
		Title: title,
		URL:   url,
		Tags:  tags,
	}
}

// Render returns the human-readable wire form of the bookmark.
func (b *Bookmark) Render() string {
	tags := b.Tags
	if len(tags) > MaxTagsPrint {
		tags = tags[:MaxTagsPrint]
	}

	return fmt.Sprintf("TITLE: %s\nLINK: %s\nTAGS: [%s, ...]",
		b.Title, b.URL, strings.Join(tags, ", "))
}
