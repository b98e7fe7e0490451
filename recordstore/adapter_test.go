package recordstore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

type failingKV struct{}

func (failingKV) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.Wrap(errors.ErrStoreUnavailable, "connection refused")
}

func (failingKV) Set(context.Context, string, []byte) error {
	return errors.Wrap(errors.ErrStoreUnavailable, "connection refused")
}

func observedAdapter(kv KV, keys KeyMap) (*Adapter, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewAdapter(kv, keys, zap.New(core).Sugar()), logs
}

func TestRead_ConcatenatesDomainKeys(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "dofRecords", []byte(`[{"id":"1"},{"id":"2"}]`)))
	require.NoError(t, kv.Set(ctx, "dof-8d-records", []byte(`[{"id":"8D-1"}]`)))

	a, _ := observedAdapter(kv, nil)
	records := a.Read(ctx, quality.DomainCorrectiveAction)

	require.Len(t, records, 3)
	assert.JSONEq(t, `{"id":"8D-1"}`, string(records[2]))
}

func TestRead_NeverFails(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		value string
		want  int
		warns int
	}{
		{"absent key", "", 0, 0},
		{"garbage", "{not json", 0, 1},
		{"object instead of array", `{"id":"x"}`, 0, 1},
		{"null", "null", 0, 0},
		{"mixed elements", `[{"id":"a"}, 3, "x", null, {"id":"b"}]`, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemoryKV()
			if tt.value != "" {
				require.NoError(t, kv.Set(ctx, "suppliers", []byte(tt.value)))
			}
			a, logs := observedAdapter(kv, nil)

			records := a.Read(ctx, quality.DomainSupplier)

			assert.Len(t, records, tt.want)
			assert.Equal(t, tt.warns, logs.FilterLevelExact(zapcore.WarnLevel).Len())
		})
	}
}

func TestRead_BackendErrorIsEmpty(t *testing.T) {
	a, logs := observedAdapter(failingKV{}, nil)

	records := a.Read(context.Background(), quality.DomainAudit)

	assert.Empty(t, records)
	assert.Equal(t, int64(2), a.ReadFailures(), "both audit keys failed")
	assert.Equal(t, 2, logs.FilterMessage("Record store read failed, treating as empty").Len())
}

func TestWrite(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	a, _ := observedAdapter(kv, nil)

	records := []json.RawMessage{json.RawMessage(`{"maliyetTuru":"hurda","maliyet":1000}`)}
	require.NoError(t, a.WriteDomain(ctx, quality.DomainQualityCost, records))

	raw, ok, err := kv.Get(ctx, "kys-cost-management-data")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"maliyetTuru":"hurda","maliyet":1000}]`, string(raw))

	require.NoError(t, a.Write(ctx, "empty", nil))
	raw, _, _ = kv.Get(ctx, "empty")
	assert.Equal(t, "[]", string(raw))

	assert.True(t, errors.IsInvalidRequestError(a.Write(ctx, "", records)))
	assert.True(t, errors.Is(a.WriteDomain(ctx, "ncr", records), errors.ErrUnknownDomain))
}

func TestWrite_BackendError(t *testing.T) {
	a, _ := observedAdapter(failingKV{}, nil)
	err := a.Write(context.Background(), "suppliers", []json.RawMessage{json.RawMessage(`{}`)})
	require.Error(t, err)
	assert.True(t, errors.IsStoreUnavailableError(err))
}

func TestNewKeyMap(t *testing.T) {
	keys := NewKeyMap(map[string][]string{
		"dof":     {"legacyDof"},
		"unknown": {"x"},
		"audit":   {},
	})
	assert.Equal(t, []string{"legacyDof"}, keys[quality.DomainCorrectiveAction])
	assert.Equal(t, DefaultKeys[quality.DomainAudit], keys[quality.DomainAudit])
	assert.Equal(t, "suppliers", keys.Primary(quality.DomainSupplier))
	assert.Empty(t, keys.Primary("nope"))
	assert.Len(t, keys, len(quality.Domains))

	// overrides never leak into the defaults
	assert.Equal(t, "dofRecords", DefaultKeys[quality.DomainCorrectiveAction][0])
}

func TestMemoryKV_CopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	buf := []byte(`[1]`)
	require.NoError(t, kv.Set(ctx, "k", buf))
	buf[1] = '2'

	got, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[1]", string(got))

	keys, err := kv.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, keys)
}
