package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/stash/internal/bookmarks"
)

const testSeed = `---
- user: alice
  groups:
    - name: Go
      bookmarks:
        - title: The Go Blog
          url: https://go.dev/blog
          tags: [golang, blog]
        - url: https://pkg.go.dev
- user: bob
  groups:
    - name: Reading
      bookmarks: []
`

func TestLoaderLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(testSeed), 0o644); err != nil {
		t.Fatalf("writing seed file: %v", err)
	}

	config, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(config) != 2 {
		t.Fatalf("Load() returned %d users, want 2", len(config))
	}
	if config[0].Groups[0].Bookmarks[0].Title != "The Go Blog" {
		t.Errorf("first bookmark title = %q", config[0].Groups[0].Bookmarks[0].Title)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	if _, err := NewLoader("/nonexistent/seed.yaml").Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	os.WriteFile(path, []byte(testSeed), 0o644)
	config, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	storage := bookmarks.NewStorage()
	inserted, err := Apply(config, storage)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if inserted != 2 {
		t.Errorf("Apply() inserted %d bookmarks, want 2", inserted)
	}

	col, ok := storage.Get("alice")
	if !ok {
		t.Fatal("alice's collection missing")
	}
	if !col.ContainsGroup("Go") {
		t.Error("seeded group missing")
	}
	// An entry without a title falls back to its url.
	if got := len(col.SearchByTitle("https://pkg.go.dev")); got != 1 {
		t.Errorf("title-less entry not found by url title, got %d", got)
	}

	if bobCol, ok := storage.Get("bob"); !ok || !bobCol.ContainsGroup("Reading") {
		t.Error("empty seeded group missing for bob")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	os.WriteFile(path, []byte(testSeed), 0o644)
	config, _ := NewLoader(path).Load()

	storage := bookmarks.NewStorage()
	if _, err := Apply(config, storage); err != nil {
		t.Fatalf("first Apply() error = %v", err)
	}

	inserted, err := Apply(config, storage)
	if err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}
	if inserted != 0 {
		t.Errorf("second Apply() inserted %d bookmarks, want 0", inserted)
	}
}
