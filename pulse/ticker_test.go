package pulse

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
)

func TestTicker_SkipsWhileRunning(t *testing.T) {
	release := make(chan struct{})
	var runs atomic.Int32
	ticker := NewTicker(func(ctx context.Context) error {
		runs.Add(1)
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}, TickerConfig{Interval: time.Hour}, zaptest.NewLogger(t).Sugar())
	defer ticker.Stop()

	require.True(t, ticker.tick(time.Now()))
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, ticker.Running())

	assert.False(t, ticker.tick(time.Now()), "overlapping tick must be skipped")
	assert.False(t, ticker.tick(time.Now()))

	close(release)
	require.Eventually(t, func() bool { return !ticker.Running() }, time.Second, 5*time.Millisecond)
	assert.True(t, ticker.tick(time.Now()))
	require.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, 5*time.Millisecond)

	stats := ticker.GetStats()
	assert.Equal(t, int64(4), stats["ticks_since_start"])
	assert.Equal(t, int64(2), stats["skipped_ticks"])
}

func TestTicker_RunsOnInterval(t *testing.T) {
	var runs atomic.Int32
	ticker := NewTicker(func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, TickerConfig{Interval: 10 * time.Millisecond, RunOnStart: true}, zaptest.NewLogger(t).Sugar())

	ticker.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	ticker.Stop()

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load(), "no passes after Stop")
}

func TestTicker_StopCancelsRunningPass(t *testing.T) {
	started := make(chan struct{})
	var sawCancel atomic.Bool
	ticker := NewTicker(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		sawCancel.Store(true)
		return ctx.Err()
	}, TickerConfig{Interval: time.Hour}, nil)

	ticker.tick(time.Now())
	<-started
	ticker.Stop()
	ticker.Stop()

	assert.True(t, sawCancel.Load())
	assert.False(t, ticker.tick(time.Now()), "stopped ticker does not run")
}

func TestTicker_StopRacingTicks(t *testing.T) {
	var runs atomic.Int64
	ticker := NewTicker(func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, TickerConfig{Interval: time.Hour}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				ticker.tick(time.Now())
			}
		}()
	}
	ticker.Stop()
	after := runs.Load()
	wg.Wait()

	assert.False(t, ticker.Running())
	assert.Equal(t, after, runs.Load(), "no pass starts once Stop has returned")
}

func TestTicker_RecordsFailures(t *testing.T) {
	done := make(chan struct{})
	ticker := NewTicker(func(ctx context.Context) error {
		defer close(done)
		return errors.New("store offline")
	}, TickerConfig{}, zaptest.NewLogger(t).Sugar())
	defer ticker.Stop()

	ticker.tick(time.Now())
	<-done
	require.Eventually(t, func() bool { return !ticker.Running() }, time.Second, 5*time.Millisecond)

	stats := ticker.GetStats()
	assert.Equal(t, int64(1), stats["failed_runs"])
	assert.Equal(t, "store offline", stats["last_error"])
	assert.Equal(t, DefaultInterval, stats["interval"])
}
