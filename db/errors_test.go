package db

import (
	"database/sql"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"

	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
)

func TestIsUnavailable(t *testing.T) {
	assert.False(t, IsUnavailable(nil))
	assert.False(t, IsUnavailable(sql.ErrNoRows))
	assert.False(t, IsUnavailable(sqlite3.Error{Code: sqlite3.ErrConstraint}))

	assert.True(t, IsUnavailable(errors.Wrap(sql.ErrConnDone, "read kv")))
	assert.True(t, IsUnavailable(errors.Wrap(sqlite3.Error{Code: sqlite3.ErrBusy}, "read kv")))
	assert.True(t, IsUnavailable(sqlite3.Error{Code: sqlite3.ErrLocked}))
	assert.True(t, IsUnavailable(errors.New("sql: database is closed")))
}
