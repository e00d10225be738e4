// Package config holds host-local operator settings that are not part
// of a DCP's validation policy (that's internal/profile's job): probe
// binary paths, timeouts, cache backend selection, report sink
// credentials. Uses the same env-var-with-fallback loading shape as an
// optional ~/.clairmeta.toml file read with github.com/BurntSushi/toml
// for persistent per-host defaults, env vars taking precedence (§10.3).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds every host-local setting the CLI needs that isn't part
// of a profile.
type Config struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	ProbeBinDir  string        `toml:"probe_bin_dir"`
	ProbeTimeout time.Duration `toml:"-"`
	ProbeRetries int           `toml:"probe_retries"`

	ProfileName string `toml:"default_profile"`

	CacheBackend string `toml:"cache_backend"` // "local", "redis", or "" (disabled)
	CacheDir     string `toml:"cache_dir"`
	RedisAddr    string `toml:"redis_addr"`
	RedisDB      int    `toml:"redis_db"`

	// ReportSink selects an upload destination for rendered reports
	// (internal/reportsink): "local", "s3", "gcs", "azure", or "" (none).
	ReportSink       string `toml:"report_sink"`
	ReportSinkBucket string `toml:"report_sink_bucket"`

	MetricsTextfile string `toml:"metrics_textfile"`

	// raw TOML-only fields that need unit conversion after decode.
	ProbeTimeoutSeconds int `toml:"probe_timeout_seconds"`
}

// Load builds a Config from, in increasing priority: compiled-in
// defaults, ~/.clairmeta.toml if present, then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if home, err := os.UserHomeDir(); err == nil {
		tomlPath := filepath.Join(home, ".clairmeta.toml")
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if _, err := toml.DecodeFile(tomlPath, cfg); err != nil {
				return nil, fmt.Errorf("config: parsing %s: %w", tomlPath, err)
			}
			if cfg.ProbeTimeoutSeconds > 0 {
				cfg.ProbeTimeout = time.Duration(cfg.ProbeTimeoutSeconds) * time.Second
			}
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "console",
		ProbeBinDir:  "",
		ProbeTimeout: 2 * time.Minute,
		ProbeRetries: 1,
		ProfileName:  "DCI",
		CacheBackend: "",
		CacheDir:     filepath.Join(os.TempDir(), "clairmeta-cache"),
		RedisDB:      0,
	}
}

func applyEnv(cfg *Config) {
	cfg.LogLevel = getEnv("CLAIRMETA_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("CLAIRMETA_LOG_FORMAT", cfg.LogFormat)
	cfg.ProbeBinDir = getEnv("CLAIRMETA_PROBE_BIN_DIR", cfg.ProbeBinDir)
	cfg.ProbeTimeout = getEnvAsDuration("CLAIRMETA_PROBE_TIMEOUT", cfg.ProbeTimeout)
	cfg.ProbeRetries = getEnvAsInt("CLAIRMETA_PROBE_RETRIES", cfg.ProbeRetries)
	cfg.ProfileName = getEnv("CLAIRMETA_PROFILE", cfg.ProfileName)
	cfg.CacheBackend = getEnv("CLAIRMETA_CACHE_BACKEND", cfg.CacheBackend)
	cfg.CacheDir = getEnv("CLAIRMETA_CACHE_DIR", cfg.CacheDir)
	cfg.RedisAddr = getEnv("CLAIRMETA_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisDB = getEnvAsInt("CLAIRMETA_REDIS_DB", cfg.RedisDB)
	cfg.ReportSink = getEnv("CLAIRMETA_REPORT_SINK", cfg.ReportSink)
	cfg.ReportSinkBucket = getEnv("CLAIRMETA_REPORT_SINK_BUCKET", cfg.ReportSinkBucket)
	cfg.MetricsTextfile = getEnv("CLAIRMETA_METRICS_TEXTFILE", cfg.MetricsTextfile)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}

func getEnvAsStringSlice(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return fallback
}
