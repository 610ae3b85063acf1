// Package service is the facade between the command protocol and the
// bookmark storage plus the outbound collaborators (fetcher, shortener,
// prober, Chrome import).
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/MrSnakeDoc/stash/internal/auth"
	"github.com/MrSnakeDoc/stash/internal/bookmarks"
	"github.com/MrSnakeDoc/stash/internal/chrome"
	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/external"
	"github.com/MrSnakeDoc/stash/internal/logger"
)

// Wire messages owned by the bookmark service.
const (
	MsgInvalidURL     = "The provided bookmark's url is invalid."
	MsgShortenerError = "A problem occurred with the URL shortener service."
)

// ChromeImportGroup is the group Chrome bookmarks land in.
const ChromeImportGroup = "Chrome"

// Options bundles the collaborator wiring for the bookmark service.
type Options struct {
	Storage      *bookmarks.Storage
	Fetcher      external.PageFetcher
	Shortener    external.Shortener
	Prober       external.Prober
	ProbeWorkers int
	Logger       logger.Logger
}

// Bookmarks implements every bookmark-mutating and -reading operation
// of the wire protocol. Methods take the caller's username (already
// authenticated) and return a Response carrying the exact wire message.
type Bookmarks struct {
	storage      *bookmarks.Storage
	fetcher      external.PageFetcher
	shortener    external.Shortener
	prober       external.Prober
	probeWorkers int
	log          logger.Logger
}

// NewBookmarks creates the service.
func NewBookmarks(opts Options) *Bookmarks {
	workers := opts.ProbeWorkers
	if workers <= 0 {
		workers = 4
	}
	return &Bookmarks{
		storage:      opts.Storage,
		fetcher:      opts.Fetcher,
		shortener:    opts.Shortener,
		prober:       opts.Prober,
		probeWorkers: workers,
		log:          opts.Logger,
	}
}

// CreateGroup makes a new empty group for the caller.
func (b *Bookmarks) CreateGroup(groupName, caller string) domain.Response {
	target := b.storage.Hook(caller)

	if err := target.NewGroup(groupName); err != nil {
		return domain.Err(fmt.Sprintf("Group with name %s already exists.", groupName))
	}

	return domain.OK(fmt.Sprintf("Group with name %s is created.", groupName))
}

// AddTo fetches the URL, builds a bookmark from the page and inserts it
// into the group. With shorten set the URL is shortened first.
func (b *Bookmarks) AddTo(ctx context.Context, groupName, url, caller string, shorten bool) domain.Response {
	target := b.storage.Hook(caller)

	if !target.ContainsGroup(groupName) {
		return domain.Err(fmt.Sprintf("A group with name %s does not exist.", groupName))
	}

	if shorten {
		if b.shortener == nil {
			b.log.Warn("shorten requested but no shortener is configured",
				logger.String("url", url))
			return domain.Err(MsgShortenerError)
		}
		short, err := b.shortener.Shorten(ctx, url)
		if err != nil {
			b.log.Error("url shortener call failed",
				logger.String("url", url),
				logger.Error(err))
			return domain.Err(MsgShortenerError)
		}
		url = short
	}

	bookmark, err := b.fetcher.Fetch(ctx, url)
	if err != nil {
		b.log.Info("bookmark generation failed",
			logger.String("url", url),
			logger.Error(err))
		return domain.Err(MsgInvalidURL)
	}

	if err := target.Add(groupName, bookmark); err != nil {
		switch {
		case errors.Is(err, bookmarks.ErrDuplicateBookmark):
			return domain.Err(fmt.Sprintf("%s already exists in %s.", bookmark.URL, groupName))
		case errors.Is(err, bookmarks.ErrNoSuchGroup):
			return domain.Err(fmt.Sprintf("A group with name %s does not exist.", groupName))
		default:
			b.log.Error("adding bookmark failed", logger.Error(err))
			return domain.Err(auth.MsgInternalError)
		}
	}

	return domain.OK(fmt.Sprintf("%s added to %s.", bookmark.URL, groupName))
}

// RemoveFrom deletes the bookmark with the given URL from one group.
func (b *Bookmarks) RemoveFrom(groupName, url, caller string) domain.Response {
	target := b.storage.Hook(caller)

	err := target.RemoveFromGroup(groupName, url)
	switch {
	case err == nil:
		return domain.OK(fmt.Sprintf("%s removed from %s.", url, groupName))
	case errors.Is(err, bookmarks.ErrNoSuchGroup):
		return domain.Err(fmt.Sprintf("A bookmark group with name %s does not exist.", groupName))
	case errors.Is(err, bookmarks.ErrNoSuchBookmark):
		return domain.Err(fmt.Sprintf("A bookmark with url %s does not exist.", url))
	default:
		b.log.Error("removing bookmark failed", logger.Error(err))
		return domain.Err(auth.MsgInternalError)
	}
}

// List renders every group of the caller.
func (b *Bookmarks) List(caller string) domain.Response {
	target := b.storage.Hook(caller)

	return domain.OK(renderAll(target))
}

// ListGroup renders a single group.
func (b *Bookmarks) ListGroup(groupName, caller string) domain.Response {
	target := b.storage.Hook(caller)

	group, err := target.Group(groupName)
	if err != nil {
		return domain.Err(fmt.Sprintf("A group with name %s does not exist.", groupName))
	}

	return domain.OK(renderGroup(groupName, group))
}

// SearchByTitle renders the bookmarks whose title contains the needle.
func (b *Bookmarks) SearchByTitle(title, caller string) domain.Response {
	if title == "" {
		return domain.Err("Title is empty.")
	}

	target := b.storage.Hook(caller)
	found := target.SearchByTitle(title)

	return domain.OK(header() + renderGroup(title, found))
}

// SearchByTags renders the bookmarks matching any of the tags.
func (b *Bookmarks) SearchByTags(tags []string, caller string) domain.Response {
	target := b.storage.Hook(caller)
	found := target.SearchByTags(tags)

	label := "[" + joinTags(tags) + "]"
	return domain.OK(header() + renderGroup(label, found))
}

// Cleanup probes every URL of the caller's collection off the executor
// loop and removes the ones that come back 404 from every group and the
// url index. A transport-level probe failure aborts the sweep.
func (b *Bookmarks) Cleanup(ctx context.Context, caller string) domain.Response {
	target := b.storage.Hook(caller)

	urls := target.URLs()
	results := external.ProbeAll(ctx, b.prober, urls, b.probeWorkers)

	removed := 0
	for _, result := range results {
		if result.Err != nil {
			b.log.Warn("bookmark probe failed",
				logger.String("url", result.URL),
				logger.Error(result.Err))
			return domain.Err("Could not remove a bookmark with url " + result.URL)
		}

		if result.Status == http.StatusNotFound {
			if err := target.RemoveEverywhere(result.URL); err == nil {
				removed++
			}
		}
	}

	return domain.OK(fmt.Sprintf("Cleanup completed. Totally removed invalid bookmarks: %d", removed))
}

// ImportFromChrome loads the local Chrome bookmark bar into the
// "Chrome" group, creating it when absent. Individual add failures are
// logged and skipped.
func (b *Bookmarks) ImportFromChrome(ctx context.Context, caller string) domain.Response {
	target := b.storage.Hook(caller)

	path, err := chrome.BookmarksPath()
	if err != nil {
		var unsupported *chrome.ErrUnsupportedOS
		if errors.As(err, &unsupported) {
			return domain.Err(unsupported.OS + " not supported.")
		}
		b.log.Error("resolving chrome bookmarks path failed", logger.Error(err))
		return domain.Err(auth.MsgInternalError)
	}

	urls, err := chrome.ReadBookmarkBar(path)
	if err != nil {
		b.log.Warn("chrome import failed",
			logger.String("path", path),
			logger.Error(err))
		return domain.Err("Could not import bookmarks from " + runtime.GOOS + ".")
	}

	if !target.ContainsGroup(ChromeImportGroup) {
		b.CreateGroup(ChromeImportGroup, caller)
	}

	for _, url := range urls {
		if resp := b.AddTo(ctx, ChromeImportGroup, url, caller, false); resp.IsError() {
			b.log.Warn("skipping chrome bookmark",
				logger.String("url", url),
				logger.String("reason", resp.Message))
		}
	}

	return domain.OK("Chrome import completed. Bookmarks imported to group Chrome.")
}
