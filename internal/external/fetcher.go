// Package external holds the outbound HTTP collaborators: page
// fetching for bookmark generation, URL shortening and dead-link
// probing. Everything here runs with bounded timeouts and never on the
// executor loop's critical path longer than one command.
package external

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/net/html"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/utils"
)

const (
	maxKeywords      = 20
	minKeywordLength = 3
)

// PageFetcher turns a URL into a bookmark with a title and keyword
// tags.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*domain.Bookmark, error)
}

// HTTPFetcher fetches the page over HTTP and extracts the title and the
// most frequent body words as tags.
type HTTPFetcher struct {
	client    *http.Client
	stopwords *StopWords
}

// NewHTTPFetcher creates a fetcher with the given timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		stopwords: DefaultStopWords(),
	}
}

// Fetch downloads and parses the page. The URL must be absolute http(s).
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*domain.Bookmark, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url %q: %w", rawURL, err)
	}
	if !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("url %q is not an absolute http(s) url", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", parsed, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", parsed, resp.StatusCode)
	}

	title, text, err := extractTitleAndText(resp)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", parsed, err)
	}
	if title == "" {
		title = parsed.String()
	}

	return domain.NewBookmark(title, parsed.String(), f.keywords(text)), nil
}

// extractTitleAndText walks the HTML token stream collecting the
// document title and the visible body text.
func extractTitleAndText(resp *http.Response) (string, []string, error) {
	tokenizer := html.NewTokenizer(resp.Body)

	var (
		title   string
		words   []string
		inTitle bool
		skip    int // depth inside script/style subtrees
	)

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if errors.Is(tokenizer.Err(), io.EOF) {
				return title, words, nil
			}
			return "", nil, tokenizer.Err()

		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "title":
				inTitle = true
			case "script", "style":
				skip++
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "title":
				inTitle = false
			case "script", "style":
				if skip > 0 {
					skip--
				}
			}

		case html.TextToken:
			text := string(tokenizer.Text())
			if inTitle {
				title += strings.TrimSpace(text)
				continue
			}
			if skip == 0 {
				words = append(words, text)
			}
		}
	}
}

// keywords ranks the page words by frequency and keeps the top ones,
// dropping short words and stopwords.
func (f *HTTPFetcher) keywords(chunks []string) []string {
	occurrences := make(map[string]int)

	for _, chunk := range chunks {
		fields := strings.FieldsFunc(chunk, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, word := range fields {
			word = strings.ToLower(strings.TrimSpace(word))
			if len(word) <= minKeywordLength || f.stopwords.Contains(word) {
				continue
			}
			occurrences[word]++
		}
	}

	ranked := make([]string, 0, len(occurrences))
	for word := range occurrences {
		ranked = append(ranked, word)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if occurrences[ranked[i]] != occurrences[ranked[j]] {
			return occurrences[ranked[i]] > occurrences[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	if len(ranked) > maxKeywords {
		ranked = ranked[:maxKeywords]
	}
	return ranked
}
