package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/stash/internal/utils"
)

// DefaultBitlyAPIURL is the Bitly v4 shorten endpoint.
const DefaultBitlyAPIURL = "https://api-ssl.bitly.com/v4/shorten"

// Shortener produces a shortened form of a URL.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (string, error)
}

// BitlyShortener shortens URLs through the Bitly v4 API.
type BitlyShortener struct {
	apiURL string
	token  string
	client *http.Client
}

// NewBitlyShortener creates a shortener. An empty apiURL falls back to
// the public endpoint.
func NewBitlyShortener(apiURL, token string, timeout time.Duration) *BitlyShortener {
	if apiURL == "" {
		apiURL = DefaultBitlyAPIURL
	}
	return &BitlyShortener{
		apiURL: apiURL,
		token:  token,
		client: &http.Client{Timeout: timeout},
	}
}

type shortenRequest struct {
	LongURL string `json:"long_url"`
}

type shortenResponse struct {
	CreatedAt string `json:"created_at"`
	ID        string `json:"id"`
	Link      string `json:"link"`
}

// Shorten posts the long URL and returns the shortened link.
func (s *BitlyShortener) Shorten(ctx context.Context, longURL string) (string, error) {
	body, err := json.Marshal(shortenRequest{LongURL: longURL})
	if err != nil {
		return "", fmt.Errorf("encoding shorten request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building shorten request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling url shortener: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("url shortener returned status %d", resp.StatusCode)
	}

	var shortened shortenResponse
	if err := json.NewDecoder(resp.Body).Decode(&shortened); err != nil {
		return "", fmt.Errorf("decoding shorten response: %w", err)
	}
	if shortened.Link == "" {
		return "", fmt.Errorf("url shortener returned an empty link")
	}

	return shortened.Link, nil
}
