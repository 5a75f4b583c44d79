// SPDX-License-Identifier: MIT

// Package config assembles validator configuration from defaults, an
// optional YAML file and environment variables, in that order of precedence
// (environment wins).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/campuslib/mvol-validate/internal/mvol"
)

// AppConfig holds the runtime configuration for the validator.
type AppConfig struct {
	// Root is the data root containing the mvol directory.
	Root string `yaml:"root"`
	// Chunk scopes validation to an identifier prefix ("mvol",
	// "mvol-0001", ...). Defaults to the whole tree.
	Chunk string `yaml:"chunk"`
	// DataDir receives reports and the run-history database.
	DataDir string `yaml:"data_dir"`
	// Listen is the daemon HTTP listen address.
	Listen string `yaml:"listen"`
	// ScanInterval is the period between automatic scans in daemon mode.
	ScanInterval time.Duration `yaml:"scan_interval"`
	// Jobs bounds concurrent per-directory validations.
	Jobs int `yaml:"jobs"`
	// Watch enables fsnotify-triggered rescans in daemon mode.
	Watch bool `yaml:"watch"`
	// WatchDebounce is the quiet period before a watch-triggered rescan.
	WatchDebounce time.Duration `yaml:"watch_debounce"`
	// RateLimit is the per-IP API request budget per minute.
	RateLimit int `yaml:"rate_limit"`
	// LogLevel sets the zerolog level.
	LogLevel string `yaml:"log_level"`
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		Chunk:         "mvol",
		DataDir:       "./data",
		Listen:        ":8080",
		ScanInterval:  time.Hour,
		Jobs:          4,
		Watch:         true,
		WatchDebounce: 2 * time.Second,
		RateLimit:     120,
		LogLevel:      "info",
	}
}

// FromEnv overlays environment variables onto cfg.
func FromEnv(cfg AppConfig) AppConfig {
	cfg.Root = ParseString("MVOL_ROOT", cfg.Root)
	cfg.Chunk = ParseString("MVOL_CHUNK", cfg.Chunk)
	cfg.DataDir = ParseString("MVOL_DATA_DIR", cfg.DataDir)
	cfg.Listen = ParseString("MVOL_LISTEN", cfg.Listen)
	cfg.ScanInterval = ParseDuration("MVOL_SCAN_INTERVAL", cfg.ScanInterval)
	cfg.Jobs = ParseInt("MVOL_JOBS", cfg.Jobs)
	cfg.Watch = ParseBool("MVOL_WATCH", cfg.Watch)
	cfg.WatchDebounce = ParseDuration("MVOL_WATCH_DEBOUNCE", cfg.WatchDebounce)
	cfg.RateLimit = ParseInt("MVOL_RATE_LIMIT", cfg.RateLimit)
	cfg.LogLevel = ParseString("MVOL_LOG_LEVEL", cfg.LogLevel)
	return cfg
}

// Validate checks the configuration before use.
func Validate(cfg AppConfig) error {
	var problems []string

	if strings.TrimSpace(cfg.Root) == "" {
		problems = append(problems, "root must be set")
	} else if info, err := os.Stat(cfg.Root); err != nil {
		problems = append(problems, fmt.Sprintf("root: %v", err))
	} else if !info.IsDir() {
		problems = append(problems, fmt.Sprintf("root %s is not a directory", cfg.Root))
	}

	if _, err := mvol.ParseChunk(cfg.Chunk); err != nil {
		problems = append(problems, fmt.Sprintf("chunk: %v", err))
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		problems = append(problems, "data_dir must be set")
	}
	if cfg.Jobs < 1 {
		problems = append(problems, fmt.Sprintf("jobs must be positive, got %d", cfg.Jobs))
	}
	if cfg.ScanInterval < time.Minute {
		problems = append(problems, fmt.Sprintf("scan_interval must be at least 1m, got %s", cfg.ScanInterval))
	}
	if cfg.WatchDebounce <= 0 {
		problems = append(problems, fmt.Sprintf("watch_debounce must be positive, got %s", cfg.WatchDebounce))
	}
	if cfg.RateLimit < 1 {
		problems = append(problems, fmt.Sprintf("rate_limit must be positive, got %d", cfg.RateLimit))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
