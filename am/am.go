package am

// Config represents the engine configuration
type Config struct {
	Store       StoreConfig       `mapstructure:"store"`
	Sync        SyncConfig        `mapstructure:"sync"`
	Cache       CacheConfig       `mapstructure:"cache"`
	QualityCost QualityCostConfig `mapstructure:"quality_cost"`
	KPI         KPIConfig         `mapstructure:"kpi"`
	History     HistoryConfig     `mapstructure:"history"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
}

// StoreConfig selects and configures the shared key-value record store
type StoreConfig struct {
	Backend string              `mapstructure:"backend"` // memory, sqlite, redis
	SQLite  SQLiteConfig        `mapstructure:"sqlite"`
	Redis   RedisConfig         `mapstructure:"redis"`
	Keys    map[string][]string `mapstructure:"keys"` // per-domain key overrides (e.g. dof = ["dofRecords"])
}

// SQLiteConfig configures the SQLite-backed store
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig configures the Redis-backed store
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"` // prepended to every record key
}

// SyncConfig configures the background sync scheduler
type SyncConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalSeconds int  `mapstructure:"interval_seconds"` // 0 = manual resync only
}

// CacheConfig configures summary memoization
type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

// QualityCostConfig carries the revenue baseline cost ratios are expressed against
type QualityCostConfig struct {
	RevenueBaseline float64 `mapstructure:"revenue_baseline"` // 0 = cost ratio reported as 0
}

// KPIConfig points at the external KPI target policy
type KPIConfig struct {
	TargetsFile string `mapstructure:"targets_file"` // YAML; empty = no KPI evaluation
}

// HistoryConfig configures summary snapshot persistence
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"` // 0 = keep forever
}

// ServerConfig configures the HTTP/WebSocket surface
type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	ResyncPerMinute int      `mapstructure:"resync_per_minute"` // manual resync budget; 0 = unlimited
	ShutdownSeconds int      `mapstructure:"shutdown_seconds"`
	MetricsEndpoint bool     `mapstructure:"metrics_endpoint"`
}

// LogConfig configures logger output
type LogConfig struct {
	JSON bool `mapstructure:"json"`
}

// Store backend names
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Defaults
const (
	DefaultServerPort      = 8787
	DefaultSyncInterval    = 300 // seconds
	DefaultCacheTTL        = 60  // seconds
	DefaultResyncPerMinute = 6
)

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)
