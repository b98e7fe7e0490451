package engine

import (
	"math"
	"time"

	"github.com/atakanbattal/Kademe-KYS-sub003/cache"
	"github.com/atakanbattal/Kademe-KYS-sub003/normalize"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

// Diagnostics is operational state for dashboards and the CLI; nothing in the engine
// reads it back
type Diagnostics struct {
	CacheTimestamps   map[quality.Domain]time.Time       `json:"cacheTimestamps"`
	CacheTTL          string                             `json:"cacheTTL"`
	Cache             cache.Stats                        `json:"cache"`
	Subscribers       map[quality.Domain]int             `json:"subscribers"`
	RecordCounts      map[quality.Domain]int             `json:"recordCounts"`
	Normalization     map[quality.Domain]normalize.Stats `json:"normalization"`
	LastErrors        map[quality.Domain]string          `json:"lastErrors,omitempty"`
	StoreKeys         map[quality.Domain][]string        `json:"storeKeys"`
	StoreReadFailures int64                              `json:"storeReadFailures"`
	LastSync          time.Time                          `json:"lastSync"`
	LastSyncMS        int64                              `json:"lastSyncMs"`
	SyncCount         int64                              `json:"syncCount"`
	Syncing           bool                               `json:"syncing"`
	RevenueBaseline   float64                            `json:"revenueBaseline"`
	Scheduler         map[string]interface{}             `json:"scheduler,omitempty"`
}

// Diagnostics returns a snapshot of cache, bus and sync state
func (e *Engine) Diagnostics() Diagnostics {
	d := Diagnostics{
		CacheTimestamps:   e.cache.Timestamps(),
		CacheTTL:          e.cache.TTL().String(),
		Cache:             e.cache.Stats(),
		Subscribers:       e.bus.Counts(),
		StoreKeys:         make(map[quality.Domain][]string, len(quality.Domains)),
		StoreReadFailures: e.adapter.ReadFailures(),
		Syncing:           e.syncing.Load(),
		RevenueBaseline:   e.RevenueBaseline(),
	}
	for _, dom := range quality.Domains {
		d.StoreKeys[dom] = e.adapter.Keys(dom)
	}

	e.mu.Lock()
	d.RecordCounts = make(map[quality.Domain]int, len(e.recordCounts))
	for k, v := range e.recordCounts {
		d.RecordCounts[k] = v
	}
	d.Normalization = make(map[quality.Domain]normalize.Stats, len(e.normStats))
	for k, v := range e.normStats {
		d.Normalization[k] = v
	}
	if len(e.lastErrors) > 0 {
		d.LastErrors = make(map[quality.Domain]string, len(e.lastErrors))
		for k, v := range e.lastErrors {
			d.LastErrors[k] = v
		}
	}
	d.LastSync = e.lastSync
	d.LastSyncMS = e.lastDuration.Milliseconds()
	d.SyncCount = e.syncCount
	e.mu.Unlock()

	e.lifecycleMu.Lock()
	if e.ticker != nil {
		d.Scheduler = e.ticker.GetStats()
	}
	e.lifecycleMu.Unlock()
	return d
}

func float64bits(v float64) uint64     { return math.Float64bits(v) }
func float64frombits(b uint64) float64 { return math.Float64frombits(b) }
