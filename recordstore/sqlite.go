package recordstore

import (
	"context"
	"database/sql"

	"github.com/atakanbattal/Kademe-KYS-sub003/db"
	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
)

// SQLiteKV keeps records in the kv_records table (see db migrations)
type SQLiteKV struct {
	db *sql.DB
}

// NewSQLiteKV wraps an open, migrated database
func NewSQLiteKV(conn *sql.DB) *SQLiteKV {
	return &SQLiteKV{db: conn}
}

// Get implements KV
func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrapSQLError(err, "get %s", key)
	}
	return value, true, nil
}

// Set implements KV
func (s *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_records (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return wrapSQLError(err, "set %s", key)
	}
	return nil
}

// Keys implements Lister
func (s *SQLiteKV) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv_records ORDER BY key`)
	if err != nil {
		return nil, wrapSQLError(err, "list keys")
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, errors.Wrap(err, "scan key")
		}
		keys = append(keys, k)
	}
	return keys, errors.Wrap(rows.Err(), "iterate keys")
}

func wrapSQLError(err error, format string, args ...interface{}) error {
	if db.IsUnavailable(err) {
		err = errors.WithSecondaryError(errors.ErrStoreUnavailable, err)
	}
	return errors.Wrapf(err, "sqlite store: "+format, args...)
}
