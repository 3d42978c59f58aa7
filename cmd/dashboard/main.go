package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"k8s.io/klog/v2"

	"github.com/karushp/ems-dashboard/pkg/emsdash/clock"
	"github.com/karushp/ems-dashboard/pkg/emsdash/config"
	"github.com/karushp/ems-dashboard/pkg/emsdash/server"
	"github.com/karushp/ems-dashboard/pkg/emsdash/store"
)

func main() {
	var (
		host      = flag.String("host", "", "Host to bind (overrides EMSDASH_HOST)")
		port      = flag.Int("port", 0, "Port to serve on (overrides EMSDASH_PORT)")
		dataDir   = flag.String("data-dir", "", "Directory with processed Parquet datasets (overrides EMSDASH_DATA_DIR)")
		schedules = flag.String("config", "", "Path to a peak schedule YAML file (overrides EMSDASH_PEAK_SCHEDULES_PATH)")
	)
	klog.InitFlags(nil)
	flag.Parse()

	// Local development convenience; absence of a .env file is fine.
	if err := godotenv.Load(); err == nil {
		klog.V(2).InfoS("Loaded environment from .env")
	}

	cfgFromFlags(*host, *port, *dataDir, *schedules)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		klog.ErrorS(err, "Failed to load configuration")
		os.Exit(1)
	}

	clk := clock.RealClock{}
	st := store.New(cfg.Data.Dir, clk)
	srv := server.New(cfg, st, clk)

	if err := srv.Start(); err != nil {
		klog.ErrorS(err, "Server exited")
		os.Exit(1)
	}
}

// cfgFromFlags maps non-empty flags onto the environment so the config
// loader sees a single source of truth.
func cfgFromFlags(host string, port int, dataDir, schedules string) {
	if host != "" {
		os.Setenv("EMSDASH_HOST", host)
	}
	if port != 0 {
		os.Setenv("EMSDASH_PORT", strconv.Itoa(port))
	}
	if dataDir != "" {
		os.Setenv("EMSDASH_DATA_DIR", dataDir)
	}
	if schedules != "" {
		os.Setenv("EMSDASH_PEAK_SCHEDULES_PATH", schedules)
	}
}
