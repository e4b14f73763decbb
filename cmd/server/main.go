package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripatlas/internal/audit"
	"tripatlas/internal/config"
	"tripatlas/internal/db"
	"tripatlas/internal/jobs"
	"tripatlas/internal/metrics"
	"tripatlas/internal/server"
	"tripatlas/internal/sharelink"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Metrics collector and recorder
	metrics.Init(database)

	// Share link lifecycle manager with audit trail
	auditor := audit.NewRecorder(database)
	manager := sharelink.NewManager(database, auditor)

	// Initialize server and routes
	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, manager); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// Optional background expiry of stale share links
	if cfg.ShareLinkMaxAge > 0 {
		sweeper := jobs.NewExpirySweeper(database, 1*time.Hour, cfg.ShareLinkMaxAge)
		go sweeper.Start(ctx)
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
