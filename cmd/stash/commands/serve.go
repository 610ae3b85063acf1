package commands

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/stash/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bookmark server",
	Long: `Start the bookmark server in the foreground.

Configuration comes from environment variables (a local .env file is
picked up when present):

  STASH_LISTEN_ADDR       TCP address for the bookmark protocol (default :7777)
  STASH_ADMIN_ADDR        HTTP address for health and metrics (default :8080)
  STASH_SNAPSHOT_BACKEND  "file" or "redis" (default file)
  STASH_SEED_FILE         optional bookmarks.yaml preloaded at startup

Examples:
  # Start with defaults
  stash serve

  # Start against Redis
  STASH_SNAPSHOT_BACKEND=redis STASH_REDIS_ADDR=localhost:6379 stash serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.New().Run()
	},
}
