// Package config loads and validates the daemon configuration.
// Values arrive from an optional YAML file; missing or out-of-range values
// are filled and clamped by Normalize before Validate runs.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime parameters. Durations are expressed in
// milliseconds in the file, matching the ranges the counter hardware used.
type Config struct {
	// PollMs is the main-loop tick interval.
	PollMs int `yaml:"poll_ms"`

	// SaveIntervalMs is the periodic persistence cadence (1000-60000).
	SaveIntervalMs int `yaml:"save_interval_ms"`

	// Debounce windows per input source.
	CounterDebounceMs    int `yaml:"counter_debounce_ms"`    // 10-500
	LatchDebounceMs      int `yaml:"latch_debounce_ms"`      // 100-500
	DiagnosticDebounceMs int `yaml:"diagnostic_debounce_ms"` // fixed 200 by default

	// MaxCount is the session count ceiling (100-99999).
	MaxCount int `yaml:"max_count"`

	// StatusDurationMs is how long transient status screens stay up (1000-10000).
	StatusDurationMs int `yaml:"status_display_duration_ms"`

	// Broker is the MQTT broker address for the display publisher.
	Broker string `yaml:"broker"`

	// HTTPAddr is the status page listen address (empty disables).
	HTTPAddr string `yaml:"http_addr"`

	// DataDir is where counts, the recovery snapshot, and reports live.
	DataDir string `yaml:"data_dir"`

	// WatchdogDevice is the watchdog character device (empty disables).
	WatchdogDevice string `yaml:"watchdog_device"`

	// Input pins (BCM numbering).
	PinCounter    int `yaml:"pin_counter"`
	PinLatch      int `yaml:"pin_latch"`
	PinDiagnostic int `yaml:"pin_diagnostic"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PollMs:               20,
		SaveIntervalMs:       5000,
		CounterDebounceMs:    50,
		LatchDebounceMs:      100,
		DiagnosticDebounceMs: 200,
		MaxCount:             9999,
		StatusDurationMs:     3000,
		Broker:               "tcp://127.0.0.1:1883",
		HTTPAddr:             ":8080",
		DataDir:              "/var/lib/line-counter",
		WatchdogDevice:       "",
		PinCounter:           15,
		PinLatch:             25,
		PinDiagnostic:        27,
	}
}

// Load reads the YAML file at path, normalizes it, and validates it.
// An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// PollInterval returns PollMs as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollMs) * time.Millisecond
}

// SaveInterval returns SaveIntervalMs as a duration.
func (c Config) SaveInterval() time.Duration {
	return time.Duration(c.SaveIntervalMs) * time.Millisecond
}

// CounterDebounce returns the counter debounce window as a duration.
func (c Config) CounterDebounce() time.Duration {
	return time.Duration(c.CounterDebounceMs) * time.Millisecond
}

// LatchDebounce returns the latch debounce window as a duration.
func (c Config) LatchDebounce() time.Duration {
	return time.Duration(c.LatchDebounceMs) * time.Millisecond
}

// DiagnosticDebounce returns the diagnostic debounce window as a duration.
func (c Config) DiagnosticDebounce() time.Duration {
	return time.Duration(c.DiagnosticDebounceMs) * time.Millisecond
}

// StatusDuration returns StatusDurationMs as a duration.
func (c Config) StatusDuration() time.Duration {
	return time.Duration(c.StatusDurationMs) * time.Millisecond
}
