package am

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Record store
	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.sqlite.path", "kys.db")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "")

	// Sync scheduler: re-pull every 5 minutes
	v.SetDefault("sync.enabled", true)
	v.SetDefault("sync.interval_seconds", DefaultSyncInterval)

	// Summary cache
	v.SetDefault("cache.ttl_seconds", DefaultCacheTTL)

	// Cost of quality
	v.SetDefault("quality_cost.revenue_baseline", 0.0)

	// Snapshot history
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "kys_history.db")
	v.SetDefault("history.retention_days", 365)

	// Server
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	})
	v.SetDefault("server.resync_per_minute", DefaultResyncPerMinute)
	v.SetDefault("server.shutdown_seconds", 10)
	v.SetDefault("server.metrics_endpoint", true)

	v.SetDefault("log.json", false)
}

// BindSensitiveEnvVars explicitly binds sensitive configuration to environment variables
func BindSensitiveEnvVars(v *viper.Viper) {
	_ = v.BindEnv("store.redis.password", "KYS_REDIS_PASSWORD")
	_ = v.BindEnv("store.redis.addr", "KYS_REDIS_ADDR", "REDIS_ADDR")
}
