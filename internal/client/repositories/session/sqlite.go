package session

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

var _ Repository = (*SQLiteRepository)(nil)

// NewSQLiteRepository binds a repository to a pool or to a transaction.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Set(ctx context.Context, key, value string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, key, value, expiresAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete session[%s]: %w", key, err)
	}
	return nil
}

// List returns every unexpired row keyed by name.
func (r *SQLiteRepository) List(ctx context.Context, now time.Time) (map[string]Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value, expires_at FROM session WHERE expires_at > ?`, now.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to list session: %w", err)
	}
	defer rows.Close()

	result := make(map[string]Item)
	for rows.Next() {
		var (
			it        Item
			expiresAt int64
		)
		if err := rows.Scan(&it.Key, &it.Value, &expiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		it.ExpiresAt = time.Unix(0, expiresAt)
		result[it.Key] = it
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}
	return result, nil
}

// Purge deletes expired rows and reports how many were removed.
func (r *SQLiteRepository) Purge(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE expires_at <= ?`, now.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to purge session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to purge session: %w", err)
	}
	return n, nil
}
