package media

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/princekumarofficial/autohouse-service/internal/config"
)

// RegistryFromConfig builds every backend the configuration describes. The
// database backend uses db for its blob table unless it is disabled.
func RegistryFromConfig(ctx context.Context, cfg *config.Config, db *sql.DB) (*Registry, error) {
	remote, err := NewMinIOBackend(cfg.MinIO)
	if err != nil {
		return nil, err
	}

	database := NewDatabaseBackend(db, !cfg.Media.DisableDatabase)
	if database.IsConfigured() {
		if err := database.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to create media blob table: %w", err)
		}
	}

	registry := NewRegistry(remote, NewFolderBackend(cfg.LocalFolder.Root), database)
	slog.Info("Media storage configured", slog.Any("backends", registry.Configured()))
	return registry, nil
}
