// Package engine is the query and subscription facade over the quality metrics pipeline.
//
// An Engine owns the summary cache, the notification bus and the sync scheduler. A sync
// pass reads every domain from the record store, normalizes and aggregates it, stores the
// summary, and notifies subscribers. Passes are single-flight: the scheduler skips ticks
// while one runs, and ForceResync joins a pass already in progress. Summary reads never wait
// for a pass; they return the last cached value.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/atakanbattal/Kademe-KYS-sub003/aggregate"
	"github.com/atakanbattal/Kademe-KYS-sub003/bus"
	"github.com/atakanbattal/Kademe-KYS-sub003/cache"
	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	"github.com/atakanbattal/Kademe-KYS-sub003/history"
	"github.com/atakanbattal/Kademe-KYS-sub003/kpi"
	"github.com/atakanbattal/Kademe-KYS-sub003/logger"
	"github.com/atakanbattal/Kademe-KYS-sub003/normalize"
	"github.com/atakanbattal/Kademe-KYS-sub003/pulse"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
	"github.com/atakanbattal/Kademe-KYS-sub003/recordstore"
)

// Options configures an Engine. Store is required; everything else has a default.
type Options struct {
	Store recordstore.KV
	// Keys overrides the store keys read per domain (nil = recordstore.DefaultKeys)
	Keys recordstore.KeyMap
	// CacheTTL defaults to cache.DefaultTTL
	CacheTTL time.Duration
	// SyncInterval of 0 disables the background scheduler; passes then run only on ForceResync
	SyncInterval time.Duration
	// RevenueBaseline is the denominator for the quality cost ratio (0 = ratio reported as 0)
	RevenueBaseline float64
	// History, when set, receives a snapshot for every domain whose summary changed
	History          *history.Store
	HistoryRetention time.Duration
	// Policy holds KPI targets; nil disables KPI evaluation
	Policy     *kpi.Policy
	Clock      func() time.Time
	Logger     *zap.SugaredLogger
	Registerer prometheus.Registerer
}

// DomainResult reports one domain's outcome in a sync pass
type DomainResult struct {
	normalize.Stats
	Error string `json:"error,omitempty"`
}

// SyncResult reports a completed sync pass
type SyncResult struct {
	At       time.Time                       `json:"at"`
	Duration time.Duration                   `json:"duration"`
	Domains  map[quality.Domain]DomainResult `json:"domains"`
	Notified map[quality.Domain]int          `json:"notified"`
}

// Engine composes store, normalizer, aggregation, cache, bus and scheduler
type Engine struct {
	adapter *recordstore.Adapter
	cache   *cache.Cache
	bus     *bus.Bus
	history *history.Store
	clock   func() time.Time
	logger  *zap.SugaredLogger
	syncLog *zap.SugaredLogger
	metrics *metrics

	syncInterval     time.Duration
	historyRetention time.Duration

	policy   atomic.Pointer[kpi.Policy]
	baseline atomic.Uint64 // math.Float64bits

	group   singleflight.Group
	syncing atomic.Bool
	ticker  *pulse.Ticker

	lifecycleMu sync.Mutex
	closed      bool

	mu           sync.Mutex
	recordCounts map[quality.Domain]int
	normStats    map[quality.Domain]normalize.Stats
	lastErrors   map[quality.Domain]string
	lastDigest   map[quality.Domain]string
	lastSync     time.Time
	lastDuration time.Duration
	syncCount    int64
}

// New creates an engine. Call Start to run the scheduler and Close to stop it.
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "engine requires a record store")
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	log := logger.OrNop(opts.Logger)

	e := &Engine{
		adapter:          recordstore.NewAdapter(opts.Store, opts.Keys, log),
		cache:            cache.New(opts.CacheTTL, cache.WithClock(opts.Clock)),
		bus:              bus.New(log),
		history:          opts.History,
		clock:            opts.Clock,
		logger:           log.Named("engine"),
		syncLog:          logger.WithSymbol(log, logger.SymSync).Named("engine"),
		metrics:          newMetrics(opts.Registerer),
		syncInterval:     opts.SyncInterval,
		historyRetention: opts.HistoryRetention,
		recordCounts:     make(map[quality.Domain]int),
		normStats:        make(map[quality.Domain]normalize.Stats),
		lastErrors:       make(map[quality.Domain]string),
		lastDigest:       make(map[quality.Domain]string),
	}
	e.policy.Store(opts.Policy)
	e.SetRevenueBaseline(opts.RevenueBaseline)
	return e, nil
}

// Start launches the background scheduler, which runs a first pass immediately.
// Without a sync interval Start does nothing; summaries are then computed on demand.
func (e *Engine) Start(ctx context.Context) error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()
	if e.closed {
		return errors.New("engine is closed")
	}
	if e.ticker != nil || e.syncInterval <= 0 {
		return nil
	}
	e.ticker = pulse.NewTickerWithContext(ctx, func(ctx context.Context) error {
		_, err := e.ForceResync(ctx)
		return err
	}, pulse.TickerConfig{Interval: e.syncInterval, RunOnStart: true}, e.logger)
	e.ticker.Start()
	return nil
}

// Close stops the scheduler and waits for a running pass to return. Safe to call twice.
func (e *Engine) Close() error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if e.ticker != nil {
		e.ticker.Stop()
	}
	return nil
}

// Bus exposes the notification bus, for transports that fan events out further
func (e *Engine) Bus() *bus.Bus { return e.bus }

// Adapter exposes the record store adapter
func (e *Engine) Adapter() *recordstore.Adapter { return e.adapter }

// SetCacheTTL changes the summary freshness window
func (e *Engine) SetCacheTTL(ttl time.Duration) { e.cache.SetTTL(ttl) }

// SetPolicy replaces the KPI policy (nil disables evaluation)
func (e *Engine) SetPolicy(p *kpi.Policy) { e.policy.Store(p) }

// ForceResync runs a sync pass now, or waits for the pass already running and returns
// its result. Domain failures are reported in the result; the error is set only when ctx
// ends the pass early.
func (e *Engine) ForceResync(ctx context.Context) (*SyncResult, error) {
	v, err, shared := e.group.Do("sync", func() (interface{}, error) {
		return e.syncAll(ctx)
	})
	if shared {
		e.syncLog.Debugw("Joined in-flight sync pass")
	}
	res, _ := v.(*SyncResult)
	return res, err
}

// Syncing reports whether a pass is in progress
func (e *Engine) Syncing() bool { return e.syncing.Load() }

func (e *Engine) syncAll(ctx context.Context) (*SyncResult, error) {
	e.syncing.Store(true)
	defer e.syncing.Store(false)

	start := time.Now()
	now := e.clock()
	res := &SyncResult{
		At:       now,
		Domains:  make(map[quality.Domain]DomainResult, len(quality.Domains)),
		Notified: make(map[quality.Domain]int, len(quality.Domains)),
	}

	for _, d := range quality.Domains {
		if err := ctx.Err(); err != nil {
			return res, errors.Wrap(err, "sync pass interrupted")
		}
		summary, stats, err := e.compute(ctx, d, now)
		if err != nil {
			res.Domains[d] = DomainResult{Stats: stats, Error: err.Error()}
			e.keepPrevious(d, now)
			continue
		}
		res.Domains[d] = DomainResult{Stats: stats}
		e.cache.Put(d, summary)
		e.recordHistory(ctx, d, now, stats.Records, summary)
		n := e.bus.Notify(bus.Event{Domain: d, At: now, Records: stats.Records, Summary: summary})
		res.Notified[d] = n
		e.metrics.notifications.WithLabelValues(string(d)).Add(float64(n))
	}
	e.pruneHistory(ctx, now)

	res.Duration = time.Since(start)
	e.mu.Lock()
	e.lastSync = now
	e.lastDuration = res.Duration
	e.syncCount++
	e.mu.Unlock()

	e.metrics.syncTotal.Inc()
	e.metrics.syncDuration.Observe(res.Duration.Seconds())
	e.metrics.lastSyncUnixTime.Set(float64(now.Unix()))
	e.syncLog.Infow("Sync pass complete", logger.FieldDurationMS, res.Duration.Milliseconds())
	return res, nil
}

// compute runs one domain's pipeline. A panic inside normalization or aggregation is
// returned as an error so the remaining domains still run.
func (e *Engine) compute(ctx context.Context, d quality.Domain, now time.Time) (summary any, stats normalize.Stats, err error) {
	run, ok := pipelines[d]
	if !ok {
		return nil, stats, errors.Wrapf(errors.ErrUnknownDomain, "%q", d)
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("%s pipeline panicked: %v", d, r)
		}
		if err != nil {
			e.metrics.domainFailures.WithLabelValues(string(d)).Inc()
			e.mu.Lock()
			e.lastErrors[d] = err.Error()
			e.mu.Unlock()
			e.logger.Errorw("Domain pipeline failed, keeping previous summary",
				logger.FieldDomain, d,
				logger.FieldError, err)
		}
	}()

	records := e.adapter.Read(ctx, d)
	summary, stats = run(records, now, e.RevenueBaseline())

	e.mu.Lock()
	e.recordCounts[d] = stats.Records
	e.normStats[d] = stats
	delete(e.lastErrors, d)
	e.mu.Unlock()

	e.metrics.domainRecords.WithLabelValues(string(d)).Set(float64(stats.Records))
	e.metrics.skippedRecords.WithLabelValues(string(d)).Set(float64(stats.Skipped))
	e.metrics.classifyMisses.WithLabelValues(string(d)).Add(float64(stats.Misses))
	if stats.Skipped > 0 || stats.Misses > 0 {
		e.logger.Debugw("Normalization fell back to defaults",
			logger.FieldDomain, d,
			logger.FieldSkipped, stats.Skipped,
			logger.FieldMisses, stats.Misses)
	}
	return summary, stats, nil
}

// keepPrevious leaves the cached summary in place, or installs the zero summary when the
// domain has never computed
func (e *Engine) keepPrevious(d quality.Domain, now time.Time) {
	if _, _, ok := e.cache.Peek(d); ok {
		return
	}
	e.cache.Put(d, zeroSummary(d, now))
}

// Summary returns domain's summary. Fresh cached values are returned as-is; while a pass
// runs the last value is returned however old; otherwise a stale entry is recomputed.
// Failures degrade to the previous or zero summary and are never returned to the caller.
func (e *Engine) Summary(ctx context.Context, d quality.Domain) (any, error) {
	if !d.Valid() {
		return nil, errors.Wrapf(errors.ErrUnknownDomain, "%q", d)
	}
	if e.cache.Fresh(d) || e.syncing.Load() {
		if v, _, ok := e.cache.Peek(d); ok {
			source := "cache"
			if !e.cache.Fresh(d) {
				source = "stale"
			}
			e.metrics.summaryReads.WithLabelValues(string(d), source).Inc()
			return v, nil
		}
	}
	e.metrics.summaryReads.WithLabelValues(string(d), "compute").Inc()
	v, err := e.cache.Get(d, func() (any, error) {
		summary, _, err := e.compute(ctx, d, e.clock())
		return summary, err
	})
	if v == nil {
		// compute failed and the domain has never succeeded
		e.logger.Debugw("Serving zero summary", logger.FieldDomain, d, logger.FieldError, err)
		v = zeroSummary(d, e.clock())
		e.cache.Put(d, v)
		e.cache.Invalidate(d)
	}
	return v, nil
}

func summaryAs[T any](ctx context.Context, e *Engine, d quality.Domain) T {
	v, _ := e.Summary(ctx, d)
	if p, ok := v.(*T); ok && p != nil {
		return *p
	}
	var zero T
	return zero
}

// CorrectiveActionSummary returns the DOF/8D summary
func (e *Engine) CorrectiveActionSummary(ctx context.Context) aggregate.CorrectiveActionSummary {
	return summaryAs[aggregate.CorrectiveActionSummary](ctx, e, quality.DomainCorrectiveAction)
}

// SupplierSummary returns the supplier summary
func (e *Engine) SupplierSummary(ctx context.Context) aggregate.SupplierSummary {
	return summaryAs[aggregate.SupplierSummary](ctx, e, quality.DomainSupplier)
}

// QualityCostSummary returns the cost-of-quality summary
func (e *Engine) QualityCostSummary(ctx context.Context) aggregate.QualityCostSummary {
	return summaryAs[aggregate.QualityCostSummary](ctx, e, quality.DomainQualityCost)
}

// VehicleQualitySummary returns the vehicle inspection summary
func (e *Engine) VehicleQualitySummary(ctx context.Context) aggregate.VehicleQualitySummary {
	return summaryAs[aggregate.VehicleQualitySummary](ctx, e, quality.DomainVehicle)
}

// AuditSummary returns the audit summary
func (e *Engine) AuditSummary(ctx context.Context) aggregate.AuditSummary {
	return summaryAs[aggregate.AuditSummary](ctx, e, quality.DomainAudit)
}

// Invalidate marks domain stale so the next read recomputes it
func (e *Engine) Invalidate(d quality.Domain) error {
	if !d.Valid() {
		return errors.Wrapf(errors.ErrUnknownDomain, "%q", d)
	}
	e.cache.Invalidate(d)
	return nil
}

// Subscribe registers cb for domain or quality.DomainAll. A callback subscribed to both a
// domain and "all" is called twice for that domain's events.
func (e *Engine) Subscribe(d quality.Domain, cb bus.Callback) (bus.Subscription, error) {
	return e.bus.Subscribe(d, cb)
}

// Unsubscribe removes a subscription; it reports whether it was registered
func (e *Engine) Unsubscribe(sub bus.Subscription) bool {
	return e.bus.Unsubscribe(sub)
}

// RevenueBaseline returns the current cost ratio denominator
func (e *Engine) RevenueBaseline() float64 {
	return float64frombits(e.baseline.Load())
}

// SetRevenueBaseline changes the cost ratio denominator and invalidates the cost summary
func (e *Engine) SetRevenueBaseline(v float64) {
	e.baseline.Store(float64bits(v))
	e.cache.Invalidate(quality.DomainQualityCost)
}

// KPI evaluates the policy against current summaries
func (e *Engine) KPI(ctx context.Context) []kpi.Result {
	p := e.policy.Load()
	if p == nil {
		return nil
	}
	summaries := make(map[quality.Domain]any, len(quality.Domains))
	for _, d := range quality.Domains {
		summaries[d], _ = e.Summary(ctx, d)
	}
	return p.Evaluate(summaries)
}

// History lists stored snapshots for domain, newest first
func (e *Engine) History(ctx context.Context, d quality.Domain, since time.Time, limit int) ([]history.Snapshot, error) {
	if !d.Valid() {
		return nil, errors.Wrapf(errors.ErrUnknownDomain, "%q", d)
	}
	if e.history == nil {
		return nil, errors.WithHint(errors.Wrap(errors.ErrNotFound, "history is disabled"),
			"set history.enabled = true in am.toml")
	}
	return e.history.List(ctx, d, since, limit)
}

// recordHistory stores a snapshot when the summary differs from the last one stored
func (e *Engine) recordHistory(ctx context.Context, d quality.Domain, now time.Time, records int, summary any) {
	if e.history == nil {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	digest := string(data)
	e.mu.Lock()
	unchanged := e.lastDigest[d] == digest
	e.mu.Unlock()
	if unchanged {
		return
	}
	if err := e.history.Record(ctx, d, now, records, summary); err != nil {
		e.metrics.historyFailures.Inc()
		e.logger.Warnw("Failed to record snapshot", logger.FieldDomain, d, logger.FieldError, err)
		return
	}
	e.mu.Lock()
	e.lastDigest[d] = digest
	e.mu.Unlock()
}

func (e *Engine) pruneHistory(ctx context.Context, now time.Time) {
	if e.history == nil || e.historyRetention <= 0 {
		return
	}
	n, err := e.history.Prune(ctx, now.Add(-e.historyRetention))
	if err != nil {
		e.metrics.historyFailures.Inc()
		e.logger.Warnw("Failed to prune snapshots", logger.FieldError, err)
		return
	}
	if n > 0 {
		e.logger.Debugw("Pruned snapshots", logger.FieldCount, n)
	}
}

// String identifies the engine in logs
func (e *Engine) String() string {
	return fmt.Sprintf("engine(ttl=%s, interval=%s)", e.cache.TTL(), e.syncInterval)
}
