package deps

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/stash/internal/auth"
	"github.com/MrSnakeDoc/stash/internal/bookmarks"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/users"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	Directory     *users.Directory     // Registered accounts
	Storage       *bookmarks.Storage   // Per-user bookmark collections
	Authenticator *auth.Authenticator  // Live session state
	RedisClient   *redis.Client        // nil when the file backend is active
	Registry      *prometheus.Registry // Metrics registry exposed on /metrics
}
