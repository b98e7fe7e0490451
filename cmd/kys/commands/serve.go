package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/atakanbattal/Kademe-KYS-sub003/am"
	"github.com/atakanbattal/Kademe-KYS-sub003/engine"
	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	"github.com/atakanbattal/Kademe-KYS-sub003/kpi"
	"github.com/atakanbattal/Kademe-KYS-sub003/logger"
	"github.com/atakanbattal/Kademe-KYS-sub003/server"
)

// ServeCmd runs the scheduler and the HTTP/WebSocket API
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Run the sync scheduler and the HTTP/WebSocket API",
	Long: `Start the engine: a sync pass runs immediately and then every sync.interval_seconds,
summaries are served under /api, change events stream over /ws, and prometheus metrics
are exposed on /metrics.

Edits to am.toml are picked up without a restart for cache.ttl_seconds,
quality_cost.revenue_baseline and kpi.targets_file.`,
	RunE: runServe,
}

var servePort int

func init() {
	ServeCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides server.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := openRuntime(ctx, true)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg := rt.cfg

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var interval time.Duration
	if cfg.Sync.Enabled {
		interval = time.Duration(cfg.Sync.IntervalSeconds) * time.Second
	}
	eng, err := rt.newEngine(interval, reg)
	if err != nil {
		return err
	}
	defer eng.Close()

	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}
	srvCfg := server.Config{
		Port:            port,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		ResyncPerMinute: cfg.Server.ResyncPerMinute,
		ShutdownTimeout: time.Duration(cfg.Server.ShutdownSeconds) * time.Second,
	}
	if cfg.Server.MetricsEndpoint {
		srvCfg.Gatherer = reg
	}
	srv := server.New(eng, srvCfg, logger.Logger)

	printStartupBanner(cfg, port, interval)

	if watcher := watchConfig(eng); watcher != nil {
		defer watcher.Stop()
	}

	if err := eng.Start(ctx); err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		return err
	}
	pterm.Success.Println("Shut down cleanly")
	return nil
}

// watchConfig reloads tunables from the project am.toml when it changes. Store and server
// settings need a restart.
func watchConfig(eng *engine.Engine) *am.ConfigWatcher {
	path := am.FindProjectConfig()
	if path == "" {
		return nil
	}
	watcher, err := am.NewConfigWatcher(path)
	if err != nil {
		logger.Warnw("Config hot reload disabled", logger.FieldPath, path, logger.FieldError, err)
		return nil
	}
	watcher.OnReload(func(cfg *am.Config) error {
		return applyReload(eng, cfg)
	})
	am.SetGlobalWatcher(watcher)
	watcher.Start()
	return watcher
}

// applyReload pushes reloadable settings into a running engine
func applyReload(eng *engine.Engine, cfg *am.Config) error {
	eng.SetCacheTTL(time.Duration(cfg.Cache.TTLSeconds) * time.Second)
	if eng.RevenueBaseline() != cfg.QualityCost.RevenueBaseline {
		eng.SetRevenueBaseline(cfg.QualityCost.RevenueBaseline)
	}
	if cfg.KPI.TargetsFile == "" {
		eng.SetPolicy(nil)
		return nil
	}
	policy, err := kpi.Load(cfg.KPI.TargetsFile)
	if err != nil {
		return errors.Wrap(err, "KPI targets not reloaded")
	}
	eng.SetPolicy(policy)
	return nil
}
