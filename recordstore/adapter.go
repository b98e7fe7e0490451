package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	"github.com/atakanbattal/Kademe-KYS-sub003/logger"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

// Adapter reads and writes domain record arrays through a KV
type Adapter struct {
	kv     KV
	keys   KeyMap
	logger *zap.SugaredLogger

	readFailures atomic.Int64
}

// NewAdapter creates an adapter. A nil keys map uses DefaultKeys.
func NewAdapter(kv KV, keys KeyMap, log *zap.SugaredLogger) *Adapter {
	if keys == nil {
		keys = NewKeyMap(nil)
	}
	return &Adapter{
		kv:     kv,
		keys:   keys,
		logger: logger.WithSymbol(log, logger.SymStore).Named("recordstore"),
	}
}

// KV returns the underlying store
func (a *Adapter) KV() KV { return a.kv }

// Keys returns the store keys for domain, in read order
func (a *Adapter) Keys(d quality.Domain) []string {
	return append([]string(nil), a.keys[d]...)
}

// KeyMap returns the resolved key map
func (a *Adapter) KeyMap() KeyMap { return a.keys }

// ReadFailures counts keys that could not be read or decoded since startup
func (a *Adapter) ReadFailures() int64 { return a.readFailures.Load() }

// Read returns every record stored under the domain's keys, in key order.
// It never fails: unreadable keys contribute no records and are logged.
func (a *Adapter) Read(ctx context.Context, d quality.Domain) []json.RawMessage {
	var records []json.RawMessage
	for _, key := range a.keys[d] {
		records = append(records, a.ReadKey(ctx, key)...)
	}
	return records
}

// ReadKey decodes the array under one key. Absent keys and non-array content yield nil;
// array elements that are not JSON objects are dropped.
func (a *Adapter) ReadKey(ctx context.Context, key string) []json.RawMessage {
	value, ok, err := a.kv.Get(ctx, key)
	if err != nil {
		a.readFailures.Add(1)
		a.logger.Warnw("Record store read failed, treating as empty",
			logger.FieldKey, key,
			logger.FieldError, err)
		return nil
	}
	if !ok {
		a.logger.Debugw("Record store key absent", logger.FieldKey, key)
		return nil
	}
	records, skipped, err := decodeArray(value)
	if err != nil {
		a.readFailures.Add(1)
		a.logger.Warnw("Record store value is not a JSON array, treating as empty",
			logger.FieldKey, key,
			logger.FieldError, err)
		return nil
	}
	if skipped > 0 {
		a.logger.Warnw("Dropped non-object array elements",
			logger.FieldKey, key,
			logger.FieldSkipped, skipped)
	}
	return records
}

func decodeArray(value []byte) ([]json.RawMessage, int, error) {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return nil, 0, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(value, &elems); err != nil {
		return nil, 0, errors.Wrap(err, "decode record array")
	}
	records := elems[:0]
	skipped := 0
	for _, e := range elems {
		trimmed := bytes.TrimSpace(e)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			skipped++
			continue
		}
		records = append(records, trimmed)
	}
	return records, skipped, nil
}

// Write replaces the array under key
func (a *Adapter) Write(ctx context.Context, key string, records []json.RawMessage) error {
	if key == "" {
		return errors.Wrap(errors.ErrInvalidRequest, "empty store key")
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return errors.Wrapf(err, "encode records for %s", key)
	}
	if err := a.kv.Set(ctx, key, data); err != nil {
		return errors.Wrapf(err, "write %s", key)
	}
	a.logger.Infow("Records written", logger.FieldKey, key, logger.FieldRecords, len(records))
	return nil
}

// WriteDomain replaces the records under the domain's primary key
func (a *Adapter) WriteDomain(ctx context.Context, d quality.Domain, records []json.RawMessage) error {
	key := a.keys.Primary(d)
	if key == "" {
		return errors.Wrapf(errors.ErrUnknownDomain, "%q", d)
	}
	return a.Write(ctx, key, records)
}
