package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
)

type statsResponse struct {
	Users          int `json:"users"`
	ActiveSessions int `json:"active_sessions"`
	Collections    int `json:"collections"`
	Bookmarks      int `json:"bookmarks"`
}

// Stats exposes live counters over the in-memory state.
func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(statsResponse{
			Users:          d.Directory.Count(),
			ActiveSessions: d.Authenticator.SessionCount(),
			Collections:    d.Storage.Count(),
			Bookmarks:      d.Storage.BookmarkCount(),
		})
	}
}
