package external

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testPage = `<!DOCTYPE html>
<html>
<head>
<title>Gopher Den</title>
<script>var ignored = "scriptnoise scriptnoise scriptnoise";</script>
<style>.ignored { color: stylenoise; }</style>
</head>
<body>
<h1>Burrow notes</h1>
<p>burrow burrow burrow tunnels tunnels the and for cat</p>
</body>
</html>`

func newTestFetcher() *HTTPFetcher {
	return NewHTTPFetcher(2 * time.Second)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testPage))
	}))
	defer srv.Close()

	bm, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if bm.Title != "Gopher Den" {
		t.Errorf("Title = %q, want %q", bm.Title, "Gopher Den")
	}
	if bm.URL != srv.URL {
		t.Errorf("URL = %q, want %q", bm.URL, srv.URL)
	}

	// Tags are frequency-ranked: burrow appears three times, tunnels
	// twice. Stopwords and words of three letters or fewer are dropped,
	// as is script and style content.
	if len(bm.Tags) < 2 || bm.Tags[0] != "burrow" || bm.Tags[1] != "tunnels" {
		t.Errorf("Tags = %v, want [burrow tunnels ...]", bm.Tags)
	}
	for _, tag := range bm.Tags {
		switch tag {
		case "the", "and", "for", "cat", "scriptnoise", "stylenoise":
			t.Errorf("Tags contain filtered word %q: %v", tag, bm.Tags)
		}
	}
}

func TestFetchTitleFallsBackToURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>no title here</body></html>"))
	}))
	defer srv.Close()

	bm, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if bm.Title != srv.URL {
		t.Errorf("Title = %q, want the url %q", bm.Title, srv.URL)
	}
}

func TestFetchRejectsBadURLs(t *testing.T) {
	f := newTestFetcher()

	for _, rawURL := range []string{"notaurl", "ftp://files.example", "/relative/path", "://bad"} {
		if _, err := f.Fetch(context.Background(), rawURL); err == nil {
			t.Errorf("Fetch(%q) should have failed", rawURL)
		}
	}
}

func TestFetchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := newTestFetcher().Fetch(context.Background(), srv.URL); err == nil {
		t.Error("Fetch() of a 404 page should have failed")
	}
}

func TestKeywordsCap(t *testing.T) {
	f := newTestFetcher()

	// 30 distinct qualifying words, each once.
	chunks := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		chunks = append(chunks, fmt.Sprintf("keyword%02d", i))
	}

	tags := f.keywords(chunks)
	if len(tags) != maxKeywords {
		t.Errorf("keywords() returned %d tags, want the cap %d", len(tags), maxKeywords)
	}
}

func TestKeywordsMinLength(t *testing.T) {
	f := newTestFetcher()

	tags := f.keywords([]string{"abc abcd"})
	if len(tags) != 1 || tags[0] != "abcd" {
		t.Errorf("keywords() = %v, want only the four-letter word", tags)
	}
}
