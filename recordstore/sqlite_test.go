package recordstore

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	kystest "github.com/atakanbattal/Kademe-KYS-sub003/internal/testing"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

func TestSQLiteKV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewSQLiteKV(kystest.CreateTestDB(t))

	_, ok, err := kv.Get(ctx, "suppliers")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "suppliers", []byte(`[{"status":"approved"}]`)))
	require.NoError(t, kv.Set(ctx, "suppliers", []byte(`[{"status":"suspended"}]`)))

	value, ok, err := kv.Get(ctx, "suppliers")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"status":"suspended"}]`, string(value))

	keys, err := kv.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"suppliers"}, keys)
}

func TestSQLiteKV_WithAdapter(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewSQLiteKV(kystest.CreateTestDB(t)), nil, nil)

	require.NoError(t, a.Write(ctx, "internalAudits", nil))
	require.NoError(t, a.Write(ctx, "auditRecords", nil))
	assert.Empty(t, a.Read(ctx, quality.DomainAudit))
}

func TestSQLiteKV_QueryError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT value FROM kv_records").
		WithArgs("dofRecords").
		WillReturnError(errors.New("database is locked"))

	_, ok, err := NewSQLiteKV(conn).Get(context.Background(), "dofRecords")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "sqlite store: get dofRecords")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteKV_ClosedDatabaseIsUnavailable(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("INSERT INTO kv_records").
		WithArgs("suppliers", []byte(`[]`)).
		WillReturnError(errors.New("sql: database is closed"))

	err = NewSQLiteKV(conn).Set(context.Background(), "suppliers", []byte(`[]`))
	require.Error(t, err)
	assert.True(t, errors.IsStoreUnavailableError(err))
}
