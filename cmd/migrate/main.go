// cmd/migrate/main.go
package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/unclebandit/mailpulse-backend/internal/config"
	"github.com/unclebandit/mailpulse-backend/internal/db"
	"github.com/unclebandit/mailpulse-backend/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Read("config.yaml")
	if err != nil {
		cfg = config.Default()
	}
	log := logger.New(logger.Config{Env: cfg.Log.Env, Level: cfg.Log.Level, ServiceName: "mailpulse-migrate"})
	defer log.Sync()

	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}
	if cfg.DB.URL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(cfg.DB.URL, log)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.Migrate(ctx, conn); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("Schema applied")
}
