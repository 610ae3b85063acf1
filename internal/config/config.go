package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

type Config struct {
	ListenAddr      string        // TCP address for the bookmark protocol (ex: ":7777")
	BufferSize      int           // per-connection read buffer, one read = one command
	MaxConns        int           // max concurrent client connections
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	AdminAddr string // HTTP address for health/metrics endpoints (ex: ":8080")

	SnapshotBackend  string        // "file" | "redis"
	UsersFile        string        // path for the users snapshot (file backend)
	BookmarksFile    string        // path for the bookmarks snapshot (file backend)
	SnapshotInterval time.Duration // interval between persistence snapshots (default: 1m)
	SeedFile         string        // path to a bookmarks.yaml seed file (optional, empty = no seed)

	FetchTimeout time.Duration // timeout for fetching a bookmarked page (default: 10s)
	ProbeTimeout time.Duration // timeout per cleanup probe (default: 5s)
	ProbeWorkers int           // concurrent cleanup probes (default: 4)

	BitlyToken  string // optional, empty = the --shorten flag fails with a service error
	BitlyAPIURL string // override for tests, defaults to the public v4 endpoint

	// Redis (only read when SnapshotBackend == "redis")
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts
}

func Load() *Config {
	// A local .env is a convenience for development; absence is fine.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenAddr:      getenv("STASH_LISTEN_ADDR", ":7777"),
		BufferSize:      getenvInt("STASH_BUFFER_SIZE", 8192),
		MaxConns:        getenvInt("STASH_MAX_CONNS", 256),
		ShutdownTimeout: mustDuration("STASH_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("STASH_LOG_LEVEL", "info"),
		PrettyLog: mustBool("STASH_PRETTY_LOG", true),

		// Admin HTTP
		AdminAddr: getenv("STASH_ADMIN_ADDR", ":8080"),

		// Persistence
		SnapshotBackend:  getenv("STASH_SNAPSHOT_BACKEND", BackendFile),
		UsersFile:        getenv("STASH_USERS_FILE", "data/users.json"),
		BookmarksFile:    getenv("STASH_BOOKMARKS_FILE", "data/bookmarks.json"),
		SnapshotInterval: mustDuration("STASH_SNAPSHOT_INTERVAL", time.Minute),
		SeedFile:         getenv("STASH_SEED_FILE", ""), // Optional, empty = no seed

		// Outbound HTTP
		FetchTimeout: mustDuration("STASH_FETCH_TIMEOUT", 10*time.Second),
		ProbeTimeout: mustDuration("STASH_PROBE_TIMEOUT", 5*time.Second),
		ProbeWorkers: getenvInt("STASH_PROBE_WORKERS", 4),

		BitlyToken:  getenv("STASH_BITLY_TOKEN", ""),
		BitlyAPIURL: getenv("STASH_BITLY_API_URL", ""),
	}

	if cfg.SnapshotBackend != BackendFile && cfg.SnapshotBackend != BackendRedis {
		panic(fmt.Sprintf("❌ FATAL: STASH_SNAPSHOT_BACKEND must be %q or %q, got %q",
			BackendFile, BackendRedis, cfg.SnapshotBackend))
	}

	if cfg.SnapshotBackend == BackendRedis {
		cfg.RedisAddr = requireEnv("STASH_REDIS_ADDR")
		cfg.RedisUser = getenv("STASH_REDIS_USERNAME", "default")
		cfg.RedisPasswordRequired = mustBool("STASH_REDIS_PASSWORD_REQUIRED", true)
		cfg.RedisPassword = getenv("STASH_REDIS_PASSWORD", "")
		cfg.RedisDB = getenvInt("STASH_REDIS_DB", 0)
		cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
		cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
		cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
		cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
		cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
		cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
		cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
		cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
		cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)

		// Validate Redis password configuration
		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: STASH_REDIS_PASSWORD is required when STASH_REDIS_PASSWORD_REQUIRED=true")
		}
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.BitlyToken = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
