package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/scrubd/pkg/cluster"
	"github.com/cuemby/scrubd/pkg/config"
	"github.com/cuemby/scrubd/pkg/log"
	"github.com/cuemby/scrubd/pkg/metrics"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scrubd",
	Short: "scrubd - scrub scheduling and throttling for Ceph placement groups",
	Long: `scrubd schedules scrub and deep-scrub operations across the placement
groups of a Ceph cluster based on how stale each PG's last scrub is,
while bounding how many PGs may be unhealthy at once so maintenance
never floods the cluster.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"scrubd version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "YAML configuration file")
	pf.BoolP("verbose", "v", false, "Add logging verbosity")
	pf.Bool("debug", false, "Turn on debug logging")
	pf.Bool("log-json", false, "Emit JSON logs instead of console output")
	pf.String("daemon-log", "", "Write logs to this file rather than stdout")
	pf.Int("scrub-interval", 0, "Interval in days since last pg scrub")
	pf.Int("deep-scrub-interval", 0, "Interval in days since last pg deep-scrub")
	pf.IntP("parallel", "p", 0, "Maximum number of unhealthy PGs")
	pf.String("ceph-binary", "", "Path to the ceph executable")
	pf.String("history", "", "Path to the run history database")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(scrubCmd)
	rootCmd.AddCommand(deepScrubCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(historyCmd)
}

// setup assembles the effective configuration (file, then flag
// overrides) and initializes logging for the invocation.
func setup(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	cfg := config.Default()
	if path, _ := flags.GetString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if flags.Changed("scrub-interval") {
		cfg.ScrubIntervalDays, _ = flags.GetInt("scrub-interval")
	}
	if flags.Changed("deep-scrub-interval") {
		cfg.DeepScrubIntervalDays, _ = flags.GetInt("deep-scrub-interval")
	}
	if flags.Changed("parallel") {
		cfg.MaxUnhealthyPGs, _ = flags.GetInt("parallel")
	}
	if flags.Changed("ceph-binary") {
		cfg.CephBinary, _ = flags.GetString("ceph-binary")
	}
	if flags.Changed("history") {
		cfg.HistoryPath, _ = flags.GetString("history")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	level := log.WarnLevel
	if verbose, _ := flags.GetBool("verbose"); verbose {
		level = log.InfoLevel
	}
	if debug, _ := flags.GetBool("debug"); debug {
		level = log.DebugLevel
	}

	jsonOutput, _ := flags.GetBool("log-json")
	var output io.Writer
	if path, _ := flags.GetString("daemon-log"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return cfg, fmt.Errorf("failed to open log file: %w", err)
		}
		output = f
		jsonOutput = true
	}

	log.Init(log.Config{Level: level, JSONOutput: jsonOutput, Output: output})
	metrics.SetVersion(Version)

	return cfg, nil
}

func newClient(cfg config.Config) *cluster.CephClient {
	return cluster.NewCephClient(log.WithComponent("cluster")).
		WithBinary(cfg.CephBinary).
		WithTimeout(cfg.CommandTimeout())
}
