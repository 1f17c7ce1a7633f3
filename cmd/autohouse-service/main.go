package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/autohouse-service/internal/cache"
	"github.com/princekumarofficial/autohouse-service/internal/config"
	"github.com/princekumarofficial/autohouse-service/internal/events"
	"github.com/princekumarofficial/autohouse-service/internal/http/router"
	"github.com/princekumarofficial/autohouse-service/internal/logging"
	"github.com/princekumarofficial/autohouse-service/internal/services/admin"
	"github.com/princekumarofficial/autohouse-service/internal/services/catalog"
	"github.com/princekumarofficial/autohouse-service/internal/services/media"
	"github.com/princekumarofficial/autohouse-service/internal/services/offers"
	"github.com/princekumarofficial/autohouse-service/internal/services/users"
	"github.com/princekumarofficial/autohouse-service/internal/storage/postgres"
	"github.com/princekumarofficial/autohouse-service/internal/websocket"
)

// @title Autohouse API
// @version 1.0
// @description Vehicle marketplace backend.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// load config
	cfg := config.MustLoad()
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	// database setup
	storage, err := postgres.NewPostgres(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer storage.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()
	slog.Info("Connected to Redis", slog.String("address", cfg.Redis.Address))

	registry, err := media.RegistryFromConfig(ctx, cfg, storage.Db)
	if err != nil {
		log.Fatal("Failed to configure media storage:", err)
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)
	publisher := events.NewEventPublisher(hub)

	catalogCache := cache.NewCatalogCache(storage, redisClient)
	importer := catalog.NewImporter(storage, cfg.Import.BatchSize, logger.With("component", "catalog-import"))
	mediaService := media.NewService(storage, registry, cfg.Media.AllowedMimeTypes)

	handler := router.New(router.Deps{
		JWTSecret:   cfg.JWTSecret,
		MaxFileSize: cfg.Media.MaxFileSize,
		PresignTTL:  time.Duration(cfg.Media.PresignedURLTTL) * time.Second,
		Redis:       redisClient,
		Hub:         hub,
		Publisher:   publisher,
		Users:       users.NewService(storage, cfg.JWTSecret, cfg.JWTTTL),
		Catalog:     catalog.NewService(catalogCache, importer, catalogCache),
		Admin:       admin.NewService(storage, storage, cfg.Import.BatchSize, logger.With("component", "admin")),
		Offers:      offers.NewService(storage, storage, catalogCache, mediaService, publisher),
		Media:       mediaService,
	})

	server := http.Server{
		Addr:    cfg.HTTPServer.Address,
		Handler: handler,
	}

	slog.Info("Server started", slog.String("address", cfg.HTTPServer.Address))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-done

	slog.Info("Shutting down server...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}
