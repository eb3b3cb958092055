// Package nonce issues single use tokens. The booking flow uses them to allow
// exactly one payment submission per visit to the payment step.
package nonce

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"parcelpoint-web/internal/config"
	"parcelpoint-web/internal/storage"
)

var Store NonceStoreInterface

// Number of random bytes. 16 → 128‑bit
const NONCE_SIZE = 16

const JANITOR_INTERVAL = 30 * time.Second

type NonceStoreType string

// Supported nonce stores.
const (
	Memory NonceStoreType = "memory"
	SQL    NonceStoreType = "sql"
)

type NonceMissingError struct {
	Nonce string
}

func (e *NonceMissingError) Error() string {
	return fmt.Sprintf("nonce not found: %s", e.Nonce)
}

type NonceExpiredError struct {
	Nonce  string
	Expiry time.Time
}

func (e *NonceExpiredError) Error() string {
	return fmt.Sprintf("nonce expired: %s (expiry: %s)", e.Nonce, e.Expiry)
}

type NonceStoreInterface interface {
	// stores a nonce with a TTL.
	Put(ctx context.Context, nonce string, ttl time.Duration) error
	// verifies and deletes the nonce.
	// Returns true if the nonce existed (valid request), false otherwise.
	Consume(ctx context.Context, nonce string) (bool, error)

	Exists(ctx context.Context, nonce string) bool

	ExpireNonces(ctx context.Context) error

	Close()
}

// sweeper periodically drops expired nonces until Close is called.
type sweeper struct {
	stop     chan struct{}
	stopOnce sync.Once
}

func newSweeper() sweeper {
	return sweeper{stop: make(chan struct{})}
}

func (s *sweeper) sweep(interval time.Duration, expire func(context.Context) error, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := expire(context.Background()); err != nil {
				logger.Error("Failed to expire nonces", "error", err)
			}
		case <-s.stop:
			return
		}
	}
}

// Close stops the background sweep.
func (s *sweeper) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func generateNonceToken() (string, error) {
	b := make([]byte, NONCE_SIZE)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Nonce creates a nonce valid for ttl and stores it in Store.
func Nonce(ctx context.Context, ttl time.Duration) (string, error) {
	nonce, err := generateNonceToken()
	if err != nil {
		return "", err
	}
	if Store == nil {
		return "", fmt.Errorf("nonce store not initialized")
	}
	if err := Store.Put(ctx, nonce, ttl); err != nil {
		return "", fmt.Errorf("failed to store nonce: %w", err)
	}
	return nonce, nil
}

// NewStore builds the Store implementation selected by cfg.NonceStore.
func NewStore(cfg *config.Config, provider storage.Provider) (NonceStoreInterface, error) {
	switch NonceStoreType(cfg.NonceStore) {
	case Memory, "":
		return NewMemoryStore(), nil
	case SQL:
		if provider == nil {
			return nil, fmt.Errorf("nonce store %q requires storage", cfg.NonceStore)
		}
		return NewSQLNonceStore(provider), nil
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.NonceStore)
	}
}

// InitNonceStore sets Store and starts its janitor.
func InitNonceStore(cfg *config.Config, provider storage.Provider) error {
	store, err := NewStore(cfg, provider)
	if err != nil {
		return fmt.Errorf("failed to initialize nonce store: %w", err)
	}

	switch s := store.(type) {
	case *SQLNonceStore:
		go s.sweep(JANITOR_INTERVAL, s.ExpireNonces, s.logger)
	case *MemoryStore:
		go s.sweep(JANITOR_INTERVAL, s.ExpireNonces, slog.With("component", "MemoryNonceStore"))
	}

	Store = store

	slog.Info("Initialized nonce store", "type", cfg.NonceStore)
	return nil
}
