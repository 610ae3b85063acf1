package service

import (
	"strings"

	"github.com/MrSnakeDoc/stash/internal/bookmarks"
	"github.com/MrSnakeDoc/stash/internal/domain"
)

const headerSize = 30

// header is the horizontal rule that frames rendered listings.
func header() string {
	return strings.Repeat("-", headerSize) + "\n"
}

// renderGroup renders one titled block of bookmarks, closed by the
// header rule.
func renderGroup(title string, list []*domain.Bookmark) string {
	var sb strings.Builder

	sb.WriteString(title)
	sb.WriteString(": \n")

	for _, bookmark := range list {
		sb.WriteString("\n")
		sb.WriteString(bookmark.Render())
		sb.WriteString("\n")
	}

	sb.WriteString(header())

	return sb.String()
}

// renderAll renders every group of the collection.
func renderAll(c *bookmarks.Collection) string {
	var sb strings.Builder

	sb.WriteString(header())

	for _, name := range c.GroupNames() {
		group, err := c.Group(name)
		if err != nil {
			continue
		}
		sb.WriteString(renderGroup(name, group))
	}

	return sb.String()
}

func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
