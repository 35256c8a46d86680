package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/repository"
	"github.com/noah-isme/course-registration-api/pkg/cache"
	"github.com/noah-isme/course-registration-api/pkg/config"
	"github.com/noah-isme/course-registration-api/pkg/database"
	"github.com/noah-isme/course-registration-api/pkg/storage"
)

// openStore builds the durable key-value store selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (repository.KeyValueStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisStore(client, logr.Named("redis-store")), nil
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		store := repository.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	case config.StoreDriverFile, "":
		local, err := storage.NewLocalStorage(cfg.Store.FileDir)
		if err != nil {
			return nil, err
		}
		return repository.NewFileStore(local), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
