// Package app wires the whole service together: config, logging,
// persistence, the TCP command server, the admin HTTP server and the
// background snapshotter.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/stash/internal/auth"
	"github.com/MrSnakeDoc/stash/internal/bookmarks"
	"github.com/MrSnakeDoc/stash/internal/config"
	"github.com/MrSnakeDoc/stash/internal/external"
	"github.com/MrSnakeDoc/stash/internal/httpserver"
	"github.com/MrSnakeDoc/stash/internal/httpserver/deps"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/metrics"
	"github.com/MrSnakeDoc/stash/internal/protocol"
	"github.com/MrSnakeDoc/stash/internal/redis"
	"github.com/MrSnakeDoc/stash/internal/scheduler"
	"github.com/MrSnakeDoc/stash/internal/seed"
	"github.com/MrSnakeDoc/stash/internal/server"
	"github.com/MrSnakeDoc/stash/internal/service"
	"github.com/MrSnakeDoc/stash/internal/store"
	filestore "github.com/MrSnakeDoc/stash/internal/store/file"
	redisstore "github.com/MrSnakeDoc/stash/internal/store/redis"
	"github.com/MrSnakeDoc/stash/internal/users"
	"github.com/MrSnakeDoc/stash/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	tcp         *server.Server
	admin       *httpserver.Server
	snapshotter *scheduler.Snapshotter
	redisClient *goredis.Client
	directory   *users.Directory
	storage     *bookmarks.Storage
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Persistence backend
	var (
		snapStore   store.Store
		redisClient *goredis.Client
	)
	switch cfg.SnapshotBackend {
	case config.BackendRedis:
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		redisClient = client
		snapStore = redisstore.New(client)
	default:
		snapStore = filestore.New(cfg.UsersFile, cfg.BookmarksFile)
	}

	// In-memory state, restored from the last snapshot
	directory := users.NewDirectory()
	storage := bookmarks.NewStorage()
	restore(snapStore, directory, storage, loggerClient)

	if cfg.SeedFile != "" {
		applySeed(cfg.SeedFile, storage, loggerClient)
	}

	// Outbound HTTP collaborators
	fetcher := external.NewHTTPFetcher(cfg.FetchTimeout)

	var shortener external.Shortener
	if cfg.BitlyToken != "" {
		apiURL := cfg.BitlyAPIURL
		if apiURL == "" {
			apiURL = external.DefaultBitlyAPIURL
		}
		shortener = external.NewBitlyShortener(apiURL, cfg.BitlyToken, cfg.FetchTimeout)
	} else {
		loggerClient.Info("no Bitly token configured, the --shorten flag will answer with a service error")
	}

	prober := external.NewHTTPProber(cfg.ProbeTimeout)

	// Command pipeline
	authenticator := auth.NewAuthenticator(directory, loggerClient)
	books := service.NewBookmarks(service.Options{
		Storage:      storage,
		Fetcher:      fetcher,
		Shortener:    shortener,
		Prober:       prober,
		ProbeWorkers: cfg.ProbeWorkers,
		Logger:       loggerClient,
	})
	executor := protocol.NewExecutor(authenticator, books)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mtr := metrics.New(registry)

	tcp := server.New(server.Config{
		Addr:       cfg.ListenAddr,
		BufferSize: cfg.BufferSize,
		MaxConns:   cfg.MaxConns,
	}, executor, authenticator, loggerClient, mtr)

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		Directory:     directory,
		Storage:       storage,
		Authenticator: authenticator,
		RedisClient:   redisClient,
		Registry:      registry,
	}
	admin := httpserver.New(cfg.AdminAddr, loggerClient, d)

	snapshotter := scheduler.NewSnapshotter(directory, storage, snapStore, loggerClient, cfg.SnapshotInterval)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		tcp:         tcp,
		admin:       admin,
		snapshotter: snapshotter,
		redisClient: redisClient,
		directory:   directory,
		storage:     storage,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Stash v%s on %s", version.Version, a.cfg.ListenAddr)
	a.logger.Infof("Stash %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.snapshotter.Start(ctx)
	a.logger.Info("snapshotter started",
		logger.Duration("interval", a.cfg.SnapshotInterval))

	errCh := make(chan error, 2)
	go func() {
		if err := a.tcp.Serve(ctx); err != nil {
			errCh <- fmt.Errorf("tcp server error: %w", err)
		}
	}()
	go func() {
		if err := a.admin.Start(); err != nil {
			errCh <- fmt.Errorf("admin server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.tcp.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.admin.Stop(shutdownCtx); err != nil {
		a.logger.Warnf("failed to stop admin server: %v", err)
	}

	// Final snapshot before letting go of the state
	a.snapshotter.Stop(shutdownCtx)

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Stash stopped cleanly")
	return nil
}

func restore(st store.Store, directory *users.Directory, storage *bookmarks.Storage, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	savedUsers, err := st.LoadUsers(ctx)
	if err != nil {
		log.Warn("could not restore users snapshot, starting empty", logger.Error(err))
	} else if len(savedUsers) > 0 {
		directory.Restore(savedUsers)
	}

	savedBookmarks, err := st.LoadBookmarks(ctx)
	if err != nil {
		log.Warn("could not restore bookmarks snapshot, starting empty", logger.Error(err))
	} else if len(savedBookmarks) > 0 {
		storage.Restore(savedBookmarks)
	}

	log.Info("state restored",
		logger.Int("users", directory.Count()),
		logger.Int("collections", storage.Count()),
		logger.Int("bookmarks", storage.BookmarkCount()))
}

func applySeed(path string, storage *bookmarks.Storage, log logger.Logger) {
	cfg, err := seed.NewLoader(path).Load()
	if err != nil {
		log.Warn("could not load seed file, skipping", logger.Error(err))
		return
	}
	inserted, err := seed.Apply(cfg, storage)
	if err != nil {
		log.Warn("seed file applied partially", logger.Error(err), logger.Int("inserted", inserted))
		return
	}
	log.Info("seed file applied",
		logger.String("file", path),
		logger.Int("inserted", inserted))
}
