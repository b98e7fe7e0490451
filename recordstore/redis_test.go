package recordstore

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

func TestRedisKV_Get(t *testing.T) {
	client, mock := redismock.NewClientMock()
	kv := NewRedisKV(client, "kys:")

	mock.ExpectGet("kys:suppliers").SetVal(`[{"status":"approved"}]`)
	mock.ExpectGet("kys:supplier-list").RedisNil()

	a := NewAdapter(kv, nil, nil)
	records := a.Read(context.Background(), quality.DomainSupplier)

	require.Len(t, records, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisKV_Absent(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("auditRecords").RedisNil()

	_, ok, err := NewRedisKV(client, "").Get(context.Background(), "auditRecords")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisKV_Set(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectSet("kys:dofRecords", []byte(`[]`), 0).SetVal("OK")

	require.NoError(t, NewRedisKV(client, "kys:").Set(context.Background(), "dofRecords", []byte(`[]`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisKV_Error(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("dofRecords").SetErr(errors.New("READONLY"))

	_, _, err := NewRedisKV(client, "").Get(context.Background(), "dofRecords")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis store: get dofRecords")
}
