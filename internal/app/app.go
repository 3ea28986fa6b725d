// Package app assembles the storage backends and services selected by the
// configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/msomdec/photo-host/internal/config"
	"github.com/msomdec/photo-host/internal/domain"
	"github.com/msomdec/photo-host/internal/repository/localfs"
	"github.com/msomdec/photo-host/internal/repository/postgres"
	"github.com/msomdec/photo-host/internal/repository/sqlite"
	"github.com/msomdec/photo-host/internal/service"
)

// App holds the wired services and the handles they depend on.
type App struct {
	DB     domain.Database
	Files  domain.FileStore
	Auth   *service.AuthService
	Photos *service.PhotoService
}

// Open connects the configured database, applies migrations, and builds the
// services.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	var (
		db    domain.Database
		files domain.FileStore
	)

	switch cfg.DBDriver {
	case config.DriverPostgres:
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db = pg
	default:
		lite, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		db = lite
		if cfg.FileStore == config.StoreSQLite {
			files = lite.FileStore()
		}
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if files == nil {
		files = localfs.New(cfg.StorageRoot)
	}
	slog.Info("storage ready", "driver", cfg.DBDriver, "file_store", cfg.FileStore)

	photoCfg := service.PhotoConfig{
		AllowedExtensions: cfg.AllowedExtensions,
		MaxUploadSize:     cfg.MaxUploadBytes,
		OwnershipEnforced: cfg.OwnershipEnforced,
	}

	return &App{
		DB:     db,
		Files:  files,
		Auth:   service.NewAuthService(db.Users(), cfg.JWTSecret, cfg.BcryptCost),
		Photos: service.NewPhotoService(db.Photos(), files, photoCfg),
	}, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	return a.DB.Close()
}
