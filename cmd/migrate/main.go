package main

import (
	"context"
	"log"
	"log/slog"

	"fitbattle-service/internal/config"
	"fitbattle-service/internal/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting database migration...")

	db, err := database.NewConnection(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close(db)

	slog.Info("Running GORM auto-migration...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	slog.Info("Database migration completed successfully!")
}
