package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cuemby/scrubd/pkg/types"
)

// Config holds the policy parameters for one operation. It is assembled
// once at startup (file, then flag overrides) and treated as immutable
// afterwards.
type Config struct {
	// ScrubIntervalDays is how many days may pass since the last scrub
	// before a PG is due again.
	ScrubIntervalDays int `yaml:"scrub_interval_days" validate:"min=1"`

	// DeepScrubIntervalDays is the same threshold for deep-scrubs.
	DeepScrubIntervalDays int `yaml:"deep_scrub_interval_days" validate:"min=1"`

	// MaxUnhealthyPGs is the admission ceiling: new scrub work is held
	// back while more PGs than this are not active+clean.
	MaxUnhealthyPGs int `yaml:"max_unhealthy_pgs" validate:"min=0"`

	// PollIntervalSeconds is the sleep between admission re-checks while
	// the cluster is above the ceiling.
	PollIntervalSeconds int `yaml:"poll_interval_seconds" validate:"min=1"`

	// ScrubDelaySeconds and DeepScrubDelaySeconds pace successive command
	// issuances within one run.
	ScrubDelaySeconds     int `yaml:"scrub_delay_seconds" validate:"min=0"`
	DeepScrubDelaySeconds int `yaml:"deep_scrub_delay_seconds" validate:"min=0"`

	// CephBinary is the cluster CLI executable.
	CephBinary string `yaml:"ceph_binary" validate:"required"`

	// CommandTimeoutSeconds bounds a single ceph invocation.
	CommandTimeoutSeconds int `yaml:"command_timeout_seconds" validate:"min=1"`

	// Daemon mode settings.
	ScrubSchedule         string `yaml:"scrub_schedule"`
	DeepScrubSchedule     string `yaml:"deep_scrub_schedule"`
	StatusIntervalSeconds int    `yaml:"status_interval_seconds" validate:"min=1"`
	MetricsAddr           string `yaml:"metrics_addr"`

	// HistoryPath is the bbolt file recording issued commands and run
	// summaries. Empty disables history.
	HistoryPath string `yaml:"history_path"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		ScrubIntervalDays:     3,
		DeepScrubIntervalDays: 7,
		MaxUnhealthyPGs:       8,
		PollIntervalSeconds:   30,
		ScrubDelaySeconds:     1,
		DeepScrubDelaySeconds: 15,
		CephBinary:            "ceph",
		CommandTimeoutSeconds: 120,
		ScrubSchedule:         "@every 4h",
		DeepScrubSchedule:     "@every 12h",
		StatusIntervalSeconds: 300,
		MetricsAddr:           ":9188",
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for internally consistent values.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IntervalDays returns the staleness threshold for the given kind.
func (c Config) IntervalDays(kind types.ScrubKind) int {
	if kind == types.KindDeepScrub {
		return c.DeepScrubIntervalDays
	}
	return c.ScrubIntervalDays
}

// InterOpDelay returns the pacing delay applied after issuing a command
// of the given kind.
func (c Config) InterOpDelay(kind types.ScrubKind) time.Duration {
	if kind == types.KindDeepScrub {
		return time.Duration(c.DeepScrubDelaySeconds) * time.Second
	}
	return time.Duration(c.ScrubDelaySeconds) * time.Second
}

// PollInterval returns the admission-wait sleep as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// CommandTimeout returns the per-invocation ceph timeout as a duration.
func (c Config) CommandTimeout() time.Duration {
	return time.Duration(c.CommandTimeoutSeconds) * time.Second
}

// StatusInterval returns the daemon status pass interval as a duration.
func (c Config) StatusInterval() time.Duration {
	return time.Duration(c.StatusIntervalSeconds) * time.Second
}
