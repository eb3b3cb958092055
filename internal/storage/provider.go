package storage

import (
	"context"
	"errors"
	"time"

	"parcelpoint-web/internal/config"
)

var ErrNoStorageConfigured = errors.New("no storage backend configured")

type Provider interface {
	Close() error
	GetSchemaVersion(ctx context.Context) (int, error)

	// Nonce-related methods
	CreateNonce(ctx context.Context, nonce string, expiresAt time.Time) error
	ExistsNonce(ctx context.Context, nonce string) (bool, error)
	ConsumeNonce(ctx context.Context, nonce string) (bool, error)
	ExpireNonces(ctx context.Context, now time.Time) error

	// Payment audit methods
	RecordPaymentRequest(ctx context.Context, req PaymentRequest) error
	ListPaymentRequests(ctx context.Context, limit int) ([]PaymentRequest, error)
	PrunePaymentRequests(ctx context.Context, olderThan time.Time) (int64, error)

	// Contact and account deletion messages
	CreateMessage(ctx context.Context, msg Message) error
	ListMessages(ctx context.Context, kind MessageKind, limit int) ([]Message, error)
}

// NewProvider opens the configured backend and migrates it to the latest schema.
func NewProvider(cfg *config.Storage) (Provider, error) {
	switch {
	case cfg != nil && cfg.SQLite != nil:
		provider, err := NewSQLiteProvider(cfg)
		if err != nil {
			return nil, err
		}
		if err := provider.runMigrations(context.Background(), "sqlite3"); err != nil {
			provider.Close()
			return nil, err
		}
		return provider, nil
	}

	return nil, ErrNoStorageConfigured
}
