package am

import "github.com/atakanbattal/Kademe-KYS-sub003/errors"

// Validate checks that the configuration is valid.
// Zero means "disabled" or "use default" wherever a field allows it; negatives are always invalid.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "", BackendMemory, BackendSQLite, BackendRedis:
	default:
		return errors.WithHint(
			errors.Newf("store.backend %q is not supported", c.Store.Backend),
			"use one of: memory, sqlite, redis")
	}

	if c.Store.Backend == BackendSQLite && c.Store.SQLite.Path == "" {
		return errors.New("store.sqlite.path cannot be empty when backend is sqlite")
	}
	if c.Store.Backend == BackendRedis && c.Store.Redis.Addr == "" {
		return errors.New("store.redis.addr cannot be empty when backend is redis")
	}
	if c.Store.Redis.DB < 0 {
		return errors.Newf("store.redis.db must be >= 0, got %d", c.Store.Redis.DB)
	}

	if c.Sync.IntervalSeconds < 0 {
		return errors.Newf("sync.interval_seconds must be >= 0, got %d", c.Sync.IntervalSeconds)
	}
	if c.Cache.TTLSeconds < 0 {
		return errors.Newf("cache.ttl_seconds must be >= 0, got %d", c.Cache.TTLSeconds)
	}
	if c.QualityCost.RevenueBaseline < 0 {
		return errors.Newf("quality_cost.revenue_baseline must be >= 0, got %f", c.QualityCost.RevenueBaseline)
	}
	if c.History.RetentionDays < 0 {
		return errors.Newf("history.retention_days must be >= 0, got %d", c.History.RetentionDays)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.Newf("server.port must be within 0-65535, got %d", c.Server.Port)
	}
	if c.Server.ResyncPerMinute < 0 {
		return errors.Newf("server.resync_per_minute must be >= 0, got %d", c.Server.ResyncPerMinute)
	}

	for domain, keys := range c.Store.Keys {
		if len(keys) == 0 {
			return errors.Newf("store.keys.%s must list at least one key", domain)
		}
	}

	return nil
}
