package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/config"
	"github.com/Freeeeeet/tutor_bot/internal/repository"
)

const pingTimeout = 5 * time.Second

// OpenStore создаёт хранилище по STORAGE_DRIVER.
// Возвращаемая функция закрывает соединения, её нужно вызвать при остановке.
func OpenStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (repository.Store, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Driver {
	case config.DriverFile, "":
		logger.Info("Using file storage", zap.String("path", cfg.DataFile))
		return repository.NewFileStore(cfg.DataFile, logger), func() {}, nil

	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)

	case config.DriverRedis:
		return openRedis(ctx, cfg, logger)

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (repository.Store, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}

	migrator, err := NewMigrator(pool, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	logger.Info("Using postgres storage", zap.String("key", cfg.StateKey))
	return repository.NewPostgresStore(pool, cfg.StateKey, logger), pool.Close, nil
}

func openRedis(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (repository.Store, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	store := repository.NewRedisStore(client, cfg.StateKey, logger)
	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}

	logger.Info("Using redis storage", zap.String("addr", cfg.RedisAddr), zap.String("key", cfg.StateKey))
	return store, closeFn, nil
}
