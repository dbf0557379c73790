package store

import (
	"context"
	"fmt"

	"github.com/amoylab/sdctrack/internal/common/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewBackend creates the backend selected by the storage configuration
func NewBackend(ctx context.Context, logger *zap.Logger, cfg *config.StorageConfig) (Backend, error) {
	logger.Info("Initializing storage", zap.String("type", cfg.Type))
	switch cfg.Type {
	case config.StorageTypeMemory:
		return NewMemoryBackend(), nil
	case config.StorageTypeRedis:
		return NewRedisBackend(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Redis.Prefix)
	case config.StorageTypeDB:
		return NewDBBackend(logger, &cfg.Database)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
