package commands

import (
	"context"
	"database/sql"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/atakanbattal/Kademe-KYS-sub003/am"
	"github.com/atakanbattal/Kademe-KYS-sub003/db"
	"github.com/atakanbattal/Kademe-KYS-sub003/engine"
	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	"github.com/atakanbattal/Kademe-KYS-sub003/history"
	"github.com/atakanbattal/Kademe-KYS-sub003/kpi"
	"github.com/atakanbattal/Kademe-KYS-sub003/logger"
	"github.com/atakanbattal/Kademe-KYS-sub003/recordstore"
)

// InitLogger configures the global logger from -v and log.json. One-shot commands stay quiet
// below warn unless -v is given; serve logs at info by default.
func InitLogger(cmd *cobra.Command) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")
	if cmd.Name() == "serve" && verbosity == 0 {
		verbosity = 1
	}
	level := zapcore.WarnLevel
	switch {
	case verbosity >= 2:
		level = zapcore.DebugLevel
	case verbosity == 1:
		level = zapcore.InfoLevel
	}

	jsonOutput := false
	if cfg, err := am.Load(); err == nil {
		jsonOutput = cfg.Log.JSON
	}
	return logger.InitializeWithLevel(jsonOutput, level)
}

// runtime is everything a command needs to talk to the store and the engine
type runtime struct {
	cfg     *am.Config
	kv      recordstore.KV
	adapter *recordstore.Adapter
	history *history.Store
	policy  *kpi.Policy
	closers []io.Closer
}

func (r *runtime) Close() error {
	var errs error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = errors.WithSecondaryError(err, errs)
		}
	}
	return errs
}

// openRuntime loads configuration and opens the configured record store.
// withHistory also opens the snapshot database when history is enabled.
func openRuntime(ctx context.Context, withHistory bool) (*runtime, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	r := &runtime{cfg: cfg}

	kv, closer, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	r.kv = kv
	if closer != nil {
		r.closers = append(r.closers, closer)
	}
	r.adapter = recordstore.NewAdapter(kv, recordstore.NewKeyMap(cfg.Store.Keys), logger.Logger)

	if withHistory && cfg.History.Enabled {
		conn, err := openDatabase(cfg.History.Path)
		if err != nil {
			r.Close()
			return nil, errors.Wrap(err, "failed to open history database")
		}
		r.closers = append(r.closers, conn)
		r.history = history.NewStore(conn)
	}

	if cfg.KPI.TargetsFile != "" {
		policy, err := kpi.Load(cfg.KPI.TargetsFile)
		if err != nil {
			logger.Warnw("KPI targets not loaded", logger.FieldPath, cfg.KPI.TargetsFile, logger.FieldError, err)
		} else {
			r.policy = policy
		}
	}
	return r, nil
}

// openStore opens the configured key-value backend. The closer may be nil.
func openStore(ctx context.Context, cfg am.StoreConfig) (recordstore.KV, io.Closer, error) {
	switch cfg.Backend {
	case am.BackendMemory:
		return recordstore.NewMemoryKV(), nil, nil
	case am.BackendRedis:
		client, err := recordstore.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return recordstore.NewRedisKV(client, cfg.Redis.Prefix), client, nil
	case am.BackendSQLite, "":
		conn, err := openDatabase(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to open record store")
		}
		return recordstore.NewSQLiteKV(conn), conn, nil
	default:
		return nil, nil, errors.WithHint(errors.Newf("unsupported store backend %q", cfg.Backend),
			"use one of: memory, sqlite, redis")
	}
}

// openDatabase opens and migrates a SQLite database at path
func openDatabase(path string) (*sql.DB, error) {
	conn, err := db.Open(path, logger.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", path)
	}
	if err := db.Migrate(conn, logger.Logger); err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "failed to run migrations on %s", path)
	}
	return conn, nil
}

// newEngine builds an engine over the runtime's store. serve passes a sync interval and a
// registry; one-shot commands pass neither and compute on demand.
func (r *runtime) newEngine(syncInterval time.Duration, reg prometheus.Registerer) (*engine.Engine, error) {
	retention := time.Duration(r.cfg.History.RetentionDays) * 24 * time.Hour
	return engine.New(engine.Options{
		Store:            r.kv,
		Keys:             r.adapter.KeyMap(),
		CacheTTL:         time.Duration(r.cfg.Cache.TTLSeconds) * time.Second,
		SyncInterval:     syncInterval,
		RevenueBaseline:  r.cfg.QualityCost.RevenueBaseline,
		History:          r.history,
		HistoryRetention: retention,
		Policy:           r.policy,
		Logger:           logger.Logger,
		Registerer:       reg,
	})
}
