package external

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestShorten(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization header = %q, want bearer token", got)
		}

		var req shortenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		if req.LongURL != "https://example.com/long" {
			t.Errorf("long_url = %q, want the original url", req.LongURL)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(shortenResponse{
			ID:   "bit.ly/abc",
			Link: "https://bit.ly/abc",
		})
	}))
	defer srv.Close()

	s := NewBitlyShortener(srv.URL, "test-token", 2*time.Second)
	short, err := s.Shorten(context.Background(), "https://example.com/long")
	if err != nil {
		t.Fatalf("Shorten() error = %v", err)
	}
	if short != "https://bit.ly/abc" {
		t.Errorf("Shorten() = %q, want %q", short, "https://bit.ly/abc")
	}
}

func TestShortenUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "FORBIDDEN", http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewBitlyShortener(srv.URL, "bad-token", 2*time.Second)
	if _, err := s.Shorten(context.Background(), "https://example.com"); err == nil {
		t.Error("Shorten() should have failed on a 403")
	}
}

func TestShortenEmptyLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(shortenResponse{})
	}))
	defer srv.Close()

	s := NewBitlyShortener(srv.URL, "test-token", 2*time.Second)
	if _, err := s.Shorten(context.Background(), "https://example.com"); err == nil {
		t.Error("Shorten() should have failed on an empty link")
	}
}
