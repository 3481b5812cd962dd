package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"lexbrief-backend/app"
	"lexbrief-backend/config"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func main() {
	// Load .env from the working directory, then the project root (relative to cmd/server/)
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	cfg, err := config.Load(viper.New(), os.Getenv("LEXBRIEF_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	if err := a.Serve(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
