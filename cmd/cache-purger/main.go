package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/telconova/portal/internal/app/api"
	"github.com/telconova/portal/internal/platform/kvstore"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.PostgresDSN == "" && cfg.SQLitePath == "" {
		log.Fatal("neither POSTGRES_DSN nor SQLITE_PATH is set; nothing to purge")
	}
	store, cleanup, err := api.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open cache store: %v", err)
	}
	defer cleanup()

	purger, ok := store.(kvstore.Purger)
	if !ok {
		log.Fatal("configured cache store cannot purge idle entries")
	}
	if _, err := api.PurgeOnce(ctx, purger, cfg.CacheIdleTTL, logger); err != nil {
		log.Fatalf("failed to purge cache: %v", err)
	}
}
