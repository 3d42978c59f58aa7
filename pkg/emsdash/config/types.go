package config

import (
	"fmt"
	"os"

	"github.com/karushp/ems-dashboard/pkg/emsdash/peakwindow"
)

// ServerConfig holds the HTTP serving surface.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DataConfig locates the processed Parquet datasets.
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// PeakConfig holds the high-demand window schedules used for the
// peak/off-peak ratio.
type PeakConfig struct {
	Schedules []peakwindow.Schedule `yaml:"schedules"`
}

// ObservabilityConfig holds monitoring settings.
type ObservabilityConfig struct {
	MetricsEnabled bool   `yaml:"metricsEnabled"`
	LogLevel       string `yaml:"logLevel"`
}

// Config holds all configuration for the dashboard service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Data          DataConfig          `yaml:"data"`
	Peak          PeakConfig          `yaml:"peak"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// Validate performs validation of the configuration.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data directory is required")
	}
	if info, err := os.Stat(c.Data.Dir); err != nil {
		return fmt.Errorf("data directory %s: %v", c.Data.Dir, err)
	} else if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", c.Data.Dir)
	}
	if _, err := peakwindow.New(c.Peak.Schedules); err != nil {
		return fmt.Errorf("invalid peak config: %v", err)
	}
	return nil
}

// PeakWindow builds the peak window from config, falling back to the
// default day/night boundary when no schedules are set.
func (c *Config) PeakWindow() *peakwindow.Window {
	if len(c.Peak.Schedules) == 0 {
		return peakwindow.Default()
	}
	w, err := peakwindow.New(c.Peak.Schedules)
	if err != nil {
		// Validate() runs before this; an invalid window here is a bug.
		return peakwindow.Default()
	}
	return w
}
