// Package cache holds short lived copies of upstream API responses.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"parcelpoint-web/internal/config"
)

var ErrMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// New builds the cache selected by cfg.Type. Redis falls back to memory when unreachable.
func New(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryCache(), nil
	case "redis":
		rc, err := NewRedisCache(cfg.Redis)
		if err != nil {
			slog.Warn("Redis cache unavailable, falling back to memory", "addr", cfg.Redis.Addr, "error", err)
			return NewMemoryCache(), nil
		}
		return rc, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	if now := time.Now(); now.After(entry.expires) {
		m.evictExpired(key, now)
		return nil, ErrMiss
	}
	return entry.value, nil
}

// evictExpired deletes key only if the entry stored now is still expired,
// so a Set racing with Get survives.
func (m *MemoryCache) evictExpired(key string, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.entries[key]; ok && now.After(entry.expires) {
		delete(m.entries, key)
	}
}

func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("ttl must be > 0")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, expires: time.Now().Add(ttl)}
	return nil
}

func (m *MemoryCache) Close() error {
	return nil
}
