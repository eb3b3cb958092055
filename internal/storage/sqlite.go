package storage

import (
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"parcelpoint-web/internal/config"
)

type SQLiteProvider struct {
	SQLProvider
}

func NewSQLiteProvider(cfg *config.Storage) (*SQLiteProvider, error) {
	path := cfg.SQLite.Path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	// WAL lets the CLI read while the server writes.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	sqlProvider, err := NewSQLProvider(cfg, "sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	return &SQLiteProvider{SQLProvider: *sqlProvider}, nil
}
