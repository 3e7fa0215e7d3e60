// One-shot sync pass, intended for cron jobs and manual runs.
package main

import (
	"context"
	"log"

	"tg-content-bot/internal/bootstrap"
	"tg-content-bot/internal/config"
	"tg-content-bot/pkg/database"
)

func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	ctx := context.Background()
	if err := container.VectorStore.EnsureCollection(ctx); err != nil {
		log.Panicf("Unable to provision vector index: %v", err)
	}

	stats, err := container.SyncService.RunOnce(ctx)
	if err != nil {
		log.Fatalf("Sync pass failed: %v", err)
	}

	log.Printf("Sync done: inserted=%d updated=%d moved=%d deleted=%d embedded=%d",
		stats.Inserted, stats.Updated, stats.Moved, stats.Deleted, stats.Embedded)
	container.Logger.Sync()
}
