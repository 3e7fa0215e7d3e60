package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tg-content-bot/internal/bootstrap"
	"tg-content-bot/internal/config"
	"tg-content-bot/internal/server"
	"tg-content-bot/internal/tracer"
	"tg-content-bot/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Make sure the vector index exists before serving traffic
	if err := container.VectorStore.EnsureCollection(context.Background()); err != nil {
		log.Panicf("Unable to provision vector index: %v", err)
	}

	// 5. Start Background Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(ctx); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	if err := container.Scheduler.Start(); err != nil {
		log.Panicf("Unable to start sync scheduler: %v", err)
	}

	// 6. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// 7. Wait for shutdown signal; an in-flight sync pass finishes first
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	container.Scheduler.Stop()
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	container.Logger.Sync()
}
