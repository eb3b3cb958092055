package routes

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"parcelpoint-web/internal/nonce"
)

type failingNonceStore struct {
	*nonce.MemoryStore
}

func (failingNonceStore) Consume(ctx context.Context, n string) (bool, error) {
	return false, errors.New("database is locked")
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func withNonceStore(t *testing.T, store nonce.NonceStoreInterface) {
	t.Helper()
	prev := nonce.Store
	nonce.Store = store
	t.Cleanup(func() {
		store.Close()
		nonce.Store = prev
	})
}

func TestConsumeSubmitNonce_SpentIsDebug(t *testing.T) {
	withNonceStore(t, nonce.NewMemoryStore())
	logs := captureLogs(t)
	ctx := context.Background()

	n, err := nonce.Nonce(ctx, time.Minute)
	if err != nil {
		t.Fatalf("Nonce: %v", err)
	}
	if !consumeSubmitNonce(ctx, n) {
		t.Fatalf("first consume must succeed")
	}
	if consumeSubmitNonce(ctx, n) {
		t.Fatalf("second consume must fail")
	}

	out := logs.String()
	if strings.Contains(out, "level=WARN") {
		t.Errorf("duplicate submit logged as warning: %s", out)
	}
	if !strings.Contains(out, "level=DEBUG") {
		t.Errorf("expected a debug line for the spent nonce: %s", out)
	}
}

func TestConsumeSubmitNonce_StoreFailureIsWarn(t *testing.T) {
	withNonceStore(t, failingNonceStore{nonce.NewMemoryStore()})
	logs := captureLogs(t)

	if consumeSubmitNonce(context.Background(), "abc") {
		t.Fatalf("consume must fail when the store fails")
	}
	if !strings.Contains(logs.String(), "level=WARN") {
		t.Errorf("store failure should be a warning: %s", logs.String())
	}
}
