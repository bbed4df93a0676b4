package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/scrubd/pkg/types"
)

// TestDefault tests the stock policy parameters
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 3, cfg.ScrubIntervalDays)
	assert.Equal(t, 7, cfg.DeepScrubIntervalDays)
	assert.Equal(t, 8, cfg.MaxUnhealthyPGs)
	assert.Equal(t, 30*time.Second, cfg.PollInterval())
	assert.Equal(t, time.Second, cfg.InterOpDelay(types.KindScrub))
	assert.Equal(t, 15*time.Second, cfg.InterOpDelay(types.KindDeepScrub))
	assert.Equal(t, "ceph", cfg.CephBinary)

	require.NoError(t, cfg.Validate())
}

// TestIntervalDays tests per-kind interval selection
func TestIntervalDays(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 3, cfg.IntervalDays(types.KindScrub))
	assert.Equal(t, 7, cfg.IntervalDays(types.KindDeepScrub))
}

// TestValidate tests rejection of unusable values
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero scrub interval", mutate: func(c *Config) { c.ScrubIntervalDays = 0 }},
		{name: "negative deep-scrub interval", mutate: func(c *Config) { c.DeepScrubIntervalDays = -1 }},
		{name: "negative ceiling", mutate: func(c *Config) { c.MaxUnhealthyPGs = -1 }},
		{name: "zero poll interval", mutate: func(c *Config) { c.PollIntervalSeconds = 0 }},
		{name: "empty ceph binary", mutate: func(c *Config) { c.CephBinary = "" }},
		{name: "zero command timeout", mutate: func(c *Config) { c.CommandTimeoutSeconds = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// TestLoad tests YAML file loading over the defaults
func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrubd.yaml")
	data := []byte(`
scrub_interval_days: 5
max_unhealthy_pgs: 2
ceph_binary: /usr/local/bin/ceph
history_path: /var/lib/scrubd/history.db
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.ScrubIntervalDays)
	assert.Equal(t, 2, cfg.MaxUnhealthyPGs)
	assert.Equal(t, "/usr/local/bin/ceph", cfg.CephBinary)
	assert.Equal(t, "/var/lib/scrubd/history.db", cfg.HistoryPath)

	// Untouched fields keep their defaults.
	assert.Equal(t, 7, cfg.DeepScrubIntervalDays)
	assert.Equal(t, 30, cfg.PollIntervalSeconds)
}

// TestLoadMissingFile tests the error path
func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

// TestLoadMalformedFile tests rejection of broken YAML
func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scrub_interval_days: [oops"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
