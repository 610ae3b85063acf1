// Package chrome reads the local Chrome bookmarks file so its entries
// can be imported into a user's collection.
package chrome

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ErrUnsupportedOS wraps the OS name when no Chrome profile path is
// known for it.
type ErrUnsupportedOS struct {
	OS string
}

func (e *ErrUnsupportedOS) Error() string {
	return fmt.Sprintf("no chrome bookmarks path for %s", e.OS)
}

// BookmarksPath returns the default Chrome bookmarks file location for
// the current OS and user.
func BookmarksPath() (string, error) {
	switch runtime.GOOS {
	case "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home dir: %w", err)
		}
		return filepath.Join(home, ".config", "google-chrome", "Default", "Bookmarks"), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home dir: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support", "Google", "Chrome", "Default", "Bookmarks"), nil
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "Google", "Chrome", "User Data", "Default", "Bookmarks"), nil
	default:
		return "", &ErrUnsupportedOS{OS: runtime.GOOS}
	}
}

type bookmarksFile struct {
	Roots struct {
		BookmarkBar folder `json:"bookmark_bar"`
	} `json:"roots"`
}

type folder struct {
	Children []entry `json:"children"`
}

type entry struct {
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ReadBookmarkBar parses the bookmarks file and returns the URLs on the
// bookmark bar. Folders nested below the bar are not descended into.
func ReadBookmarkBar(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chrome bookmarks: %w", err)
	}

	var file bookmarksFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing chrome bookmarks: %w", err)
	}

	var urls []string
	for _, child := range file.Roots.BookmarkBar.Children {
		if child.URL != "" {
			urls = append(urls, child.URL)
		}
	}
	return urls, nil
}
