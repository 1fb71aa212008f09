package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stickerverse/internal/config"
)

// Open создает KVStore согласно выбранному драйверу.
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (KVStore, error) {
	switch cfg.Driver {
	case config.StorageDriverMemory:
		logger.Warn("Using in-memory storage, stickers will be lost on restart")
		return NewMemoryStore(), nil
	case config.StorageDriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			var err error
			if path, err = DefaultSQLitePath(); err != nil {
				return nil, fmt.Errorf("failed to resolve sqlite path: %w", err)
			}
		}
		store, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		logger.Info("Using SQLite storage", zap.String("path", path))
		return store, nil
	case config.StorageDriverRedis:
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	case config.StorageDriverPostgres:
		return OpenPostgres(ctx, cfg.PostgresDSN, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
