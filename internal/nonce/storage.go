package nonce

import (
	"context"
	"log/slog"
	"time"

	"parcelpoint-web/internal/storage"
)

// SQLNonceStore keeps nonces in the storage provider so several server
// processes can share them.
type SQLNonceStore struct {
	sweeper

	logger  *slog.Logger
	storage storage.Provider
}

func NewSQLNonceStore(provider storage.Provider) *SQLNonceStore {
	return &SQLNonceStore{
		sweeper: newSweeper(),
		logger:  slog.With("component", "SQLNonceStore"),
		storage: provider,
	}
}

func (s *SQLNonceStore) Put(ctx context.Context, nonce string, ttl time.Duration) error {
	return s.storage.CreateNonce(ctx, nonce, time.Now().Add(ttl))
}

// Consume deletes the nonce row. The provider only reports rows that were
// still unexpired, so expired and missing nonces look the same here.
func (s *SQLNonceStore) Consume(ctx context.Context, nonce string) (bool, error) {
	consumed, err := s.storage.ConsumeNonce(ctx, nonce)
	if err != nil {
		return false, err
	}
	if !consumed {
		return false, &NonceMissingError{Nonce: nonce}
	}
	return true, nil
}

func (s *SQLNonceStore) Exists(ctx context.Context, nonce string) bool {
	exists, err := s.storage.ExistsNonce(ctx, nonce)
	if err != nil {
		s.logger.Error("Failed to check nonce", "error", err)
		return false
	}
	return exists
}

func (s *SQLNonceStore) ExpireNonces(ctx context.Context) error {
	return s.storage.ExpireNonces(ctx, time.Now())
}
