package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time check to ensure RedisStore implements KVStore
var _ KVStore = (*RedisStore)(nil)

// RedisStore - KVStore поверх Redis. Значения хранятся без TTL.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore создает хранилище поверх готового клиента.
func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger.Named("RedisStore"),
	}
}

// OpenRedis подключается к Redis и проверяет соединение.
func OpenRedis(ctx context.Context, addr, password string, db int, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	logger.Info("Connected to Redis", zap.String("addr", addr), zap.Int("db", db))
	return NewRedisStore(client, logger), nil
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		r.logger.Error("Failed to get key from redis", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return value, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		r.logger.Error("Failed to set key in redis", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
