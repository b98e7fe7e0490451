package commands

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"

	"github.com/atakanbattal/Kademe-KYS-sub003/am"
	"github.com/atakanbattal/Kademe-KYS-sub003/version"
)

// printStartupBanner prints the user-friendly startup message
func printStartupBanner(cfg *am.Config, port int, interval time.Duration) {
	info := version.Get()
	pterm.DefaultHeader.WithFullWidth().Printf("KYS quality metrics engine %s", info.Version)
	pterm.Println()

	storeLocation := cfg.Store.SQLite.Path
	switch cfg.Store.Backend {
	case am.BackendRedis:
		storeLocation = cfg.Store.Redis.Addr
	case am.BackendMemory:
		storeLocation = "in-process"
	}
	syncEvery := "manual only"
	if interval > 0 {
		syncEvery = interval.String()
	}
	history := "off"
	if cfg.History.Enabled {
		history = fmt.Sprintf("%s (%d days)", cfg.History.Path, cfg.History.RetentionDays)
	}

	pterm.DefaultTable.WithData(pterm.TableData{
		{"Version", fmt.Sprintf("%s (commit %s)", info.Version, info.Short())},
		{"Store", fmt.Sprintf("%s: %s", cfg.Store.Backend, storeLocation)},
		{"Sync", syncEvery},
		{"Cache TTL", fmt.Sprintf("%ds", cfg.Cache.TTLSeconds)},
		{"History", history},
		{"API", fmt.Sprintf("http://localhost:%d/api/summary", port)},
	}).Render()
	pterm.Println()
	pterm.Info.Println("Press Ctrl+C to stop")
}
