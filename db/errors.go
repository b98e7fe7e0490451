package db

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
)

// IsUnavailable reports whether err means the database cannot serve requests right now:
// the handle or connection was closed, or SQLite gave up waiting on a lock. Callers treat
// these as a store outage rather than bad data.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	// database/sql does not export its closed-handle error
	return strings.Contains(err.Error(), "database is closed")
}
