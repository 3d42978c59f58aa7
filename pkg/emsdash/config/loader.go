package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
	"k8s.io/klog/v2"
)

// LoadFromEnv loads configuration from environment variables, applying
// defaults for anything unset. If EMSDASH_PEAK_SCHEDULES_PATH points to
// a YAML file its schedules override the built-in day/night boundary.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnvOrDefault("EMSDASH_HOST", "0.0.0.0"),
			Port: getIntOrDefault("EMSDASH_PORT", 8080),
		},
		Data: DataConfig{
			Dir: getEnvOrDefault("EMSDASH_DATA_DIR", "data/processed"),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getBoolOrDefault("EMSDASH_METRICS_ENABLED", true),
			LogLevel:       getEnvOrDefault("EMSDASH_LOG_LEVEL", "info"),
		},
	}

	if path := os.Getenv("EMSDASH_PEAK_SCHEDULES_PATH"); path != "" {
		if err := loadPeakSchedules(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load peak schedules: %v", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	klog.V(2).InfoS("Loaded configuration",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"dataDir", cfg.Data.Dir,
		"peakSchedules", len(cfg.Peak.Schedules),
		"metricsEnabled", cfg.Observability.MetricsEnabled)

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if strValue := os.Getenv(key); strValue != "" {
		if value, err := strconv.Atoi(strValue); err == nil {
			return value
		}
		klog.V(2).InfoS("Invalid integer value, using default",
			"key", key,
			"value", strValue,
			"default", defaultValue)
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if strValue := os.Getenv(key); strValue != "" {
		if value, err := strconv.ParseBool(strValue); err == nil {
			return value
		}
		klog.V(2).InfoS("Invalid boolean value, using default",
			"key", key,
			"value", strValue,
			"default", defaultValue)
	}
	return defaultValue
}

func loadPeakSchedules(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read peak schedules file: %v", err)
	}

	peak := &PeakConfig{}
	if err := yaml.Unmarshal(data, peak); err != nil {
		return fmt.Errorf("failed to parse peak schedules: %v", err)
	}

	cfg.Peak.Schedules = peak.Schedules
	return nil
}
