package external

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/MrSnakeDoc/stash/internal/utils"
)

// Prober checks whether a URL still resolves to a live page.
type Prober interface {
	Probe(ctx context.Context, url string) (status int, err error)
}

// HTTPProber issues a GET with a bounded timeout and reports the status
// code.
type HTTPProber struct {
	client *http.Client
}

// NewHTTPProber creates a prober with the given per-request timeout.
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	return &HTTPProber{
		client: &http.Client{Timeout: timeout},
	}
}

// Probe fetches the URL and returns the response status.
func (p *HTTPProber) Probe(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer utils.Close(resp.Body)

	return resp.StatusCode, nil
}

// ProbeResult is the outcome of probing one URL.
type ProbeResult struct {
	URL    string
	Status int
	Err    error
}

// ProbeAll fans the URLs out over a bounded worker pool and collects
// one result per URL. The sweep is synchronous from the caller's point
// of view, but individual probes run concurrently and each carries the
// prober's timeout. On context cancellation the remaining URLs are not
// probed and the result slice is short.
func ProbeAll(ctx context.Context, prober Prober, urls []string, workers int) []ProbeResult {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(urls) {
		workers = len(urls)
	}

	jobs := make(chan string)
	results := make(chan ProbeResult, len(urls))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for url := range jobs {
				status, err := prober.Probe(ctx, url)
				results <- ProbeResult{URL: url, Status: status, Err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, url := range urls {
			select {
			case jobs <- url:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(results)

	out := make([]ProbeResult, 0, len(urls))
	for result := range results {
		out = append(out, result)
	}
	return out
}
