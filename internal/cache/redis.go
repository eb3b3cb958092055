package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"parcelpoint-web/internal/config"
)

const REDIS_KEY_PREFIX = "parcelpoint:"

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects and pings the server with a short timeout.
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	bs, err := r.client.Get(ctx, REDIS_KEY_PREFIX+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return bs, err
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.SetEx(ctx, REDIS_KEY_PREFIX+key, value, ttl).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
