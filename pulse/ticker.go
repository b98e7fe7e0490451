// Package pulse drives periodic sync passes.
//
// A Ticker fires a RunFunc on a fixed interval. A tick that arrives while the previous
// pass is still running is skipped, not queued, so passes never overlap.
package pulse

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/atakanbattal/Kademe-KYS-sub003/logger"
)

// DefaultInterval is the sync period used when none is configured
const DefaultInterval = 5 * time.Minute

// RunFunc is one sync pass. The context is canceled when the ticker stops.
type RunFunc func(ctx context.Context) error

// Ticker manages periodic execution of a sync pass
type Ticker struct {
	run      RunFunc
	interval time.Duration
	runFirst bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   *zap.SugaredLogger
	stopOnce sync.Once
	running  atomic.Bool

	mu              sync.Mutex
	stopped         bool // set before Stop waits; no pass starts afterwards
	lastTickAt      time.Time
	lastRunDuration time.Duration
	lastErr         error
	ticksSinceStart int64
	skipped         int64
	failures        int64
}

// TickerConfig contains configuration for the sync ticker
type TickerConfig struct {
	Interval   time.Duration // How often to run a pass (default: 5 minutes)
	RunOnStart bool          // Run one pass immediately when started
}

// NewTicker creates a new sync ticker
func NewTicker(run RunFunc, cfg TickerConfig, log *zap.SugaredLogger) *Ticker {
	return NewTickerWithContext(context.Background(), run, cfg, log)
}

// NewTickerWithContext creates a ticker with a parent context
func NewTickerWithContext(ctx context.Context, run RunFunc, cfg TickerConfig, log *zap.SugaredLogger) *Ticker {
	tickerCtx, cancel := context.WithCancel(ctx)
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Ticker{
		run:      run,
		interval: cfg.Interval,
		runFirst: cfg.RunOnStart,
		ctx:      tickerCtx,
		cancel:   cancel,
		logger:   logger.WithSymbol(log, logger.SymSync).Named("pulse"),
	}
}

// Start begins the ticker loop. It does nothing once Stop has been called.
func (t *Ticker) Start() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.wg.Add(1)
	t.mu.Unlock()
	go t.loop()
	t.logger.Infow("Sync ticker started", "interval", t.interval)
}

// Stop cancels any running pass and waits for it to return. Safe to call more than once.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() {
		t.mu.Lock()
		t.stopped = true
		t.mu.Unlock()
		t.cancel()
		t.wg.Wait()
		t.logger.Infow("Sync ticker stopped")
	})
}

// loop is the main ticker loop
func (t *Ticker) loop() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	if t.runFirst {
		t.tick(time.Now())
	}
	for {
		select {
		case <-t.ctx.Done():
			return
		case tickTime := <-ticker.C:
			t.tick(tickTime)
		}
	}
}

// tick starts a pass unless one is already running. It returns false when the tick was skipped.
// The pass runs on its own goroutine so a slow store never stalls the loop.
func (t *Ticker) tick(tickTime time.Time) bool {
	t.mu.Lock()
	t.lastTickAt = tickTime
	t.ticksSinceStart++
	n := t.ticksSinceStart
	if t.stopped || t.ctx.Err() != nil {
		t.mu.Unlock()
		return false
	}
	if !t.running.CompareAndSwap(false, true) {
		t.skipped++
		t.mu.Unlock()
		t.logger.Debugw("Sync pass still running, skipping tick", logger.FieldTick, n)
		return false
	}
	t.wg.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.wg.Done()
		defer t.running.Store(false)

		start := time.Now()
		err := t.run(t.ctx)
		elapsed := time.Since(start)

		t.mu.Lock()
		t.lastRunDuration = elapsed
		t.lastErr = err
		if err != nil {
			t.failures++
		}
		t.mu.Unlock()

		if err != nil && t.ctx.Err() == nil {
			t.logger.Warnw("Sync tick error", logger.FieldError, err, logger.FieldTick, n)
		}
	}()
	return true
}

// Running reports whether a pass is in progress
func (t *Ticker) Running() bool {
	return t.running.Load()
}

// GetStats returns ticker statistics
func (t *Ticker) GetStats() map[string]interface{} {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := map[string]interface{}{
		"last_tick_at":      t.lastTickAt,
		"ticks_since_start": t.ticksSinceStart,
		"skipped_ticks":     t.skipped,
		"failed_runs":       t.failures,
		"last_run_ms":       t.lastRunDuration.Milliseconds(),
		"interval":          t.interval,
		"running":           t.running.Load(),
	}
	if t.lastErr != nil {
		stats["last_error"] = t.lastErr.Error()
	}
	return stats
}
