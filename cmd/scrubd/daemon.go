package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cuemby/scrubd/pkg/daemon"
	"github.com/cuemby/scrubd/pkg/history"
	"github.com/cuemby/scrubd/pkg/log"
	"github.com/cuemby/scrubd/pkg/scheduler"
	"github.com/cuemby/scrubd/pkg/status"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run in daemon mode",
	Long: `Run scrub and deep-scrub passes on their configured schedules,
collect status continuously, and serve Prometheus metrics and a health
endpoint.`,
	RunE: runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	client := newClient(cfg)
	sched := scheduler.New(client, cfg, log.WithComponent("scheduler"))
	reporter := status.NewReporter(cfg, log.WithComponent("status"))

	if cfg.HistoryPath != "" {
		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			return err
		}
		defer store.Close()
		sched.WithRecorder(store)
	}

	d := daemon.New(cfg, client, sched, reporter, log.WithComponent("daemon"))
	if err := d.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nShutting down...")
	d.Stop()
	return nil
}
