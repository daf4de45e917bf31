// Package config loads the engine's CLI configuration from an optional YAML
// file plus defaults.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/piwi3910/cutstock/internal/model"
)

// Config holds every tunable the engine needs outside of a single request:
// default optimizer settings, concurrency caps, and the watchdog's cadence.
//
// Fields are tagged with "json", not "koanf": model.CutSettings already
// carries json tags for its own wire use, and mapstructure decodes nested
// structs using a single consistent tag, so Config reuses it rather than
// introducing a second tag vocabulary.
type Config struct {
	ListenAddr           string            `json:"listen_addr"`
	LogLevel             string            `json:"log_level"`
	MaxWorkersPerTask    int               `json:"max_workers_per_task"`
	MaxConcurrentTasks   int               `json:"max_concurrent_tasks"`
	WatchdogInterval     time.Duration     `json:"watchdog_interval"`
	WatchdogIdleWarnings int               `json:"watchdog_idle_warnings"`
	Defaults             model.CutSettings `json:"defaults"`
}

// Default returns the engine's built-in defaults (§4.5, §4.9, §4.10).
func Default() Config {
	return Config{
		ListenAddr:           ":8080",
		LogLevel:             "info",
		MaxWorkersPerTask:    4,
		MaxConcurrentTasks:   4,
		WatchdogInterval:     watchdogDefaultInterval,
		WatchdogIdleWarnings: watchdogDefaultIdleWarnings,
		Defaults:             model.DefaultSettings(),
	}
}

const (
	watchdogDefaultInterval     = 5 * time.Second
	watchdogDefaultIdleWarnings = 3
)

// DefaultConfigDir returns ~/.cutstock, creating nothing itself.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cutstock")
}

// DefaultConfigPath returns ~/.cutstock/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load builds a Config from Default(), overlaid with path's YAML contents
// if it exists. A missing file is not an error (§1 "file is optional").
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Config{}, err
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
