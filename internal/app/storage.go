// Package app assembles the service from configuration.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"contractapi/internal/config"
	"contractapi/internal/database"
	"contractapi/internal/database/migration"
	"contractapi/internal/repository"
	"contractapi/internal/repository/file"
	"contractapi/internal/repository/object"
	"contractapi/internal/repository/postgres"
	"contractapi/internal/storage"
)

// CloseFunc releases resources held by a repository backend.
type CloseFunc func() error

func noopClose() error { return nil }

// OpenRepository builds the contract repository selected by cfg.Storage.Driver.
func OpenRepository(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (repository.ContractRepository, CloseFunc, error) {
	log = log.With(zap.String("component", "storage"), zap.String("driver", cfg.Storage.Driver))

	switch cfg.Storage.Driver {
	case config.DriverFile:
		repo := file.NewContractFile(cfg.Storage.DataFile)
		if err := repo.Ping(ctx); err != nil {
			return nil, nil, fmt.Errorf("prepare data file: %w", err)
		}
		log.Info("storage_selected", zap.String("path", repo.Path()))
		return repo, noopClose, nil

	case config.DriverPostgres:
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("storage_selected", zap.String("db_host", cfg.Database.Host))
		return postgres.NewContractPostgres(db), db.Close, nil

	case config.DriverMinIO:
		store, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize object storage: %w", err)
		}
		log.Info("storage_selected",
			zap.String("bucket", cfg.MinIO.Bucket),
			zap.String("object_key", cfg.MinIO.ObjectKey),
		)
		return object.NewContractObject(store, cfg.MinIO.ObjectKey), noopClose, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
