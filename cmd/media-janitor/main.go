package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/princekumarofficial/autohouse-service/internal/config"
	"github.com/princekumarofficial/autohouse-service/internal/janitor"
	"github.com/princekumarofficial/autohouse-service/internal/logging"
	"github.com/princekumarofficial/autohouse-service/internal/services/media"
	"github.com/princekumarofficial/autohouse-service/internal/storage/postgres"
)

func main() {
	// Load config
	cfg := config.MustLoad()
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	// Initialize database connection
	storage, err := postgres.NewPostgres(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer storage.Close()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry, err := media.RegistryFromConfig(ctx, cfg, storage.Db)
	if err != nil {
		log.Fatal("Failed to configure media storage:", err)
	}
	mediaService := media.NewService(storage, registry, cfg.Media.AllowedMimeTypes)

	worker := janitor.New(storage, mediaService, cfg.Janitor.Interval, logger.With("component", "media-janitor"))

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("Received shutdown signal")
		cancel()
	}()

	worker.Start(ctx)

	slog.Info("Media janitor stopped")
}
