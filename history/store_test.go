package history

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	kystest "github.com/atakanbattal/Kademe-KYS-sub003/internal/testing"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

type closure struct {
	Total       int     `json:"total"`
	ClosureRate float64 `json:"closureRate"`
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kystest.CreateTestDB(t))
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Record(ctx, quality.DomainCorrectiveAction, base.AddDate(0, 0, i), i+1, closure{Total: i + 1, ClosureRate: float64(i * 10)}))
	}
	require.NoError(t, store.Record(ctx, quality.DomainSupplier, base, 4, map[string]int{"total": 4}))

	snaps, err := store.List(ctx, quality.DomainCorrectiveAction, base.AddDate(0, 0, 1), 0)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, base.AddDate(0, 0, 2), snaps[0].TakenAt, "newest first")
	assert.Equal(t, 3, snaps[0].Records)

	var got closure
	require.NoError(t, snaps[0].Decode(&got))
	assert.Equal(t, closure{Total: 3, ClosureRate: 20}, got)

	latest, err := store.Latest(ctx, quality.DomainSupplier)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":4}`, string(latest.Summary))
}

func TestLatest_NotFound(t *testing.T) {
	store := NewStore(kystest.CreateTestDB(t))
	_, err := store.Latest(context.Background(), quality.DomainAudit)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kystest.CreateTestDB(t))
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, quality.DomainVehicle, now.AddDate(-2, 0, 0), 1, struct{}{}))
	require.NoError(t, store.Record(ctx, quality.DomainVehicle, now.AddDate(0, 0, -1), 1, struct{}{}))

	n, err := store.Prune(ctx, now.AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	snaps, err := store.List(ctx, quality.DomainVehicle, time.Time{}, 10)
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestRecord_DatabaseError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("INSERT INTO summary_snapshots").WillReturnError(errors.New("disk full"))

	err = NewStore(conn).Record(context.Background(), quality.DomainAudit, time.Now(), 0, struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record audit snapshot")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_UnencodableSummary(t *testing.T) {
	store := NewStore(kystest.CreateTestDB(t))
	err := store.Record(context.Background(), quality.DomainAudit, time.Now(), 0, func() {})
	require.Error(t, err)
}
