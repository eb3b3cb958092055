package nonce

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryStore keeps nonces in process. Several server instances behind a
// load balancer need the SQL store instead.
type MemoryStore struct {
	sweeper

	mu      sync.RWMutex
	expires map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sweeper: newSweeper(),
		expires: make(map[string]time.Time),
	}
}

func (m *MemoryStore) Put(ctx context.Context, nonce string, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("ttl must be > 0")
	}
	m.mu.Lock()
	m.expires[nonce] = time.Now().Add(ttl)
	m.mu.Unlock()
	return nil
}

// Consume removes nonce. Only the first caller for a live nonce gets true.
func (m *MemoryStore) Consume(ctx context.Context, nonce string) (bool, error) {
	m.mu.Lock()
	exp, ok := m.expires[nonce]
	delete(m.expires, nonce)
	m.mu.Unlock()

	switch {
	case !ok:
		return false, &NonceMissingError{Nonce: nonce}
	case time.Now().After(exp):
		return false, &NonceExpiredError{Nonce: nonce, Expiry: exp}
	}
	return true, nil
}

func (m *MemoryStore) Exists(ctx context.Context, nonce string) bool {
	m.mu.RLock()
	exp, ok := m.expires[nonce]
	m.mu.RUnlock()
	return ok && time.Now().Before(exp)
}

func (m *MemoryStore) ExpireNonces(ctx context.Context) error {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for nonce, exp := range m.expires {
		if now.After(exp) {
			delete(m.expires, nonce)
		}
	}
	return nil
}
