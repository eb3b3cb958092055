package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"parcelpoint-web/internal/config"
)

const DEFAULT_LIST_LIMIT = 50

type SQLProvider struct {
	db *sqlx.DB

	config *config.Storage

	logger *slog.Logger
}

func NewSQLProvider(cfg *config.Storage, driverName string, dataSource string) (*SQLProvider, error) {
	db, err := sqlx.Open(driverName, dataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driverName, err)
	}

	return newSQLProviderFromDB(cfg, db), nil
}

func newSQLProviderFromDB(cfg *config.Storage, db *sqlx.DB) *SQLProvider {
	return &SQLProvider{
		db:     db,
		config: cfg,
		logger: slog.With("component", "storage", "driver", db.DriverName()),
	}
}

func (p *SQLProvider) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *SQLProvider) GetSchemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := p.db.GetContext(ctx, &version, "SELECT MAX(version) FROM schema_migrations")
	if err != nil {
		return 0, err
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}

func (p *SQLProvider) CreateNonce(ctx context.Context, nonce string, expiresAt time.Time) error {
	_, err := p.db.ExecContext(ctx,
		p.db.Rebind("INSERT INTO nonces (nonce, expires_at) VALUES (?, ?)"),
		nonce, expiresAt.UTC())
	return err
}

func (p *SQLProvider) ExistsNonce(ctx context.Context, nonce string) (bool, error) {
	var count int
	err := p.db.GetContext(ctx, &count,
		p.db.Rebind("SELECT COUNT(1) FROM nonces WHERE nonce = ? AND expires_at > ?"),
		nonce, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ConsumeNonce deletes a live nonce and reports whether one was deleted.
func (p *SQLProvider) ConsumeNonce(ctx context.Context, nonce string) (bool, error) {
	res, err := p.db.ExecContext(ctx,
		p.db.Rebind("DELETE FROM nonces WHERE nonce = ? AND expires_at > ?"),
		nonce, time.Now().UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (p *SQLProvider) ExpireNonces(ctx context.Context, now time.Time) error {
	res, err := p.db.ExecContext(ctx, p.db.Rebind("DELETE FROM nonces WHERE expires_at <= ?"), now.UTC())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		p.logger.Debug("Expired nonces", "count", n)
	}
	return nil
}

func (p *SQLProvider) RecordPaymentRequest(ctx context.Context, req PaymentRequest) error {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	_, err := p.db.NamedExecContext(ctx, `INSERT INTO payment_requests
		(reference_id, kind, device_id, locker_id, locker_size, phone_number, amount, transaction_desc, hours, status, error, created_at)
		VALUES
		(:reference_id, :kind, :device_id, :locker_id, :locker_size, :phone_number, :amount, :transaction_desc, :hours, :status, :error, :created_at)`,
		req)
	if err != nil {
		return fmt.Errorf("failed to record payment request %s: %w", req.ReferenceID, err)
	}
	return nil
}

func (p *SQLProvider) ListPaymentRequests(ctx context.Context, limit int) ([]PaymentRequest, error) {
	if limit <= 0 {
		limit = DEFAULT_LIST_LIMIT
	}
	var requests []PaymentRequest
	err := p.db.SelectContext(ctx, &requests,
		p.db.Rebind(`SELECT id, reference_id, kind, device_id, locker_id, locker_size, phone_number, amount,
			transaction_desc, hours, status, error, created_at
			FROM payment_requests ORDER BY created_at DESC, id DESC LIMIT ?`),
		limit)
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (p *SQLProvider) PrunePaymentRequests(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		p.db.Rebind("DELETE FROM payment_requests WHERE created_at < ?"),
		olderThan.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (p *SQLProvider) CreateMessage(ctx context.Context, msg Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	_, err := p.db.NamedExecContext(ctx, `INSERT INTO messages (kind, name, email, phone, body, created_at)
		VALUES (:kind, :name, :email, :phone, :body, :created_at)`, msg)
	return err
}

func (p *SQLProvider) ListMessages(ctx context.Context, kind MessageKind, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = DEFAULT_LIST_LIMIT
	}

	query := "SELECT id, kind, name, email, phone, body, created_at FROM messages"
	args := []any{}
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	var messages []Message
	if err := p.db.SelectContext(ctx, &messages, p.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return messages, nil
}
