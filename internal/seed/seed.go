// Package seed loads an optional bookmarks.yaml file and preloads its
// entries into per-user collections at startup. Seeded entries skip the
// page fetcher, so titles and tags come straight from the file.
package seed

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/stash/internal/bookmarks"
	"github.com/MrSnakeDoc/stash/internal/domain"
)

// Entry is a single seeded bookmark.
type Entry struct {
	Title string   `yaml:"title"`
	URL   string   `yaml:"url"`
	Tags  []string `yaml:"tags"`
}

// Group is a named group with its seeded bookmarks.
type Group struct {
	Name      string  `yaml:"name"`
	Bookmarks []Entry `yaml:"bookmarks"`
}

// UserSeed holds the groups seeded for one username.
type UserSeed struct {
	User   string  `yaml:"user"`
	Groups []Group `yaml:"groups"`
}

// Config is the root structure of the seed file.
type Config []UserSeed

// Loader handles loading and parsing of the seed file.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and parses the seed file.
func (l *Loader) Load() (Config, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	return config, nil
}

// Apply inserts the seeded entries into storage. Entries already
// present (same title in the same group, or colliding group names) are
// skipped, so applying the same seed twice is harmless. Returns the
// number of bookmarks inserted.
func Apply(config Config, storage *bookmarks.Storage) (int, error) {
	inserted := 0

	for _, us := range config {
		if us.User == "" {
			return inserted, errors.New("seed entry with empty user")
		}
		col := storage.Hook(us.User)

		for _, group := range us.Groups {
			if group.Name == "" {
				return inserted, fmt.Errorf("seed for user %s has a group with no name", us.User)
			}
			if !col.ContainsGroup(group.Name) {
				if err := col.NewGroup(group.Name); err != nil {
					return inserted, fmt.Errorf("seed group %s: %w", group.Name, err)
				}
			}

			for _, entry := range group.Bookmarks {
				if entry.URL == "" {
					continue
				}
				title := entry.Title
				if title == "" {
					title = entry.URL
				}
				err := col.Add(group.Name, domain.NewBookmark(title, entry.URL, entry.Tags))
				if errors.Is(err, bookmarks.ErrDuplicateBookmark) {
					continue
				}
				if err != nil {
					return inserted, fmt.Errorf("seed bookmark %s: %w", entry.URL, err)
				}
				inserted++
			}
		}
	}

	return inserted, nil
}
