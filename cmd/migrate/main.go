package main

import (
	"context"
	"log"

	"tg-content-bot/internal/config"
	"tg-content-bot/internal/model"
	"tg-content-bot/internal/pkg/logger"
	"tg-content-bot/internal/vectorstore"
	"tg-content-bot/pkg/database"
)

func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 1. Extensions (things GORM AutoMigrate doesn't do)
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 2. AutoMigrate relational tables. The vector table is provisioned by
	//    EnsureCollection below because its dimension is config-driven.
	models := []interface{}{
		&model.Content{},
		&model.KVEntry{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 3. Vector index
	if cfg.Vector.Enabled {
		sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
		defer sysLogger.Sync()

		store := vectorstore.NewPgVectorStore(db, cfg.Vector.Dimension, sysLogger)
		if err := store.EnsureCollection(context.Background()); err != nil {
			log.Fatalf("Error: Failed to provision vector index: %v", err)
		}
	}

	log.Println("Migration complete.")
}
