package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are per-engine so tests can run engines side by side.
// A nil Registerer creates them unregistered.
type metrics struct {
	syncTotal        prometheus.Counter
	syncDuration     prometheus.Histogram
	domainFailures   *prometheus.CounterVec
	domainRecords    *prometheus.GaugeVec
	skippedRecords   *prometheus.GaugeVec
	classifyMisses   *prometheus.CounterVec
	notifications    *prometheus.CounterVec
	summaryReads     *prometheus.CounterVec
	historyFailures  prometheus.Counter
	lastSyncUnixTime prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		syncTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "kys_sync_passes_total",
			Help: "Total sync passes run",
		}),
		syncDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "kys_sync_duration_seconds",
			Help:    "Sync pass duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}),
		domainFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kys_domain_failures_total",
			Help: "Domain pipelines that failed and kept their previous summary",
		}, []string{"domain"}),
		domainRecords: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "kys_domain_records",
			Help: "Records normalized for each domain in the last pass",
		}, []string{"domain"}),
		skippedRecords: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "kys_domain_skipped_records",
			Help: "Malformed records skipped for each domain in the last pass",
		}, []string{"domain"}),
		classifyMisses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kys_classification_misses_total",
			Help: "Enum tokens that matched no rule and fell back to the default",
		}, []string{"domain"}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kys_notifications_total",
			Help: "Subscriber callbacks invoked by domain",
		}, []string{"domain"}),
		summaryReads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kys_summary_reads_total",
			Help: "Summary reads by domain and source (cache, compute, stale)",
		}, []string{"domain", "source"}),
		historyFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "kys_history_failures_total",
			Help: "Snapshot writes or prunes that failed",
		}),
		lastSyncUnixTime: f.NewGauge(prometheus.GaugeOpts{
			Name: "kys_last_sync_timestamp_seconds",
			Help: "Unix time of the last completed sync pass",
		}),
	}
}
