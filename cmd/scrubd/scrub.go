package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cuemby/scrubd/pkg/history"
	"github.com/cuemby/scrubd/pkg/log"
	"github.com/cuemby/scrubd/pkg/scheduler"
	"github.com/cuemby/scrubd/pkg/types"
)

var scrubCmd = &cobra.Command{
	Use:   "scrub",
	Short: "Scrub all PGs overdue for scrub and exit",
	RunE:  runPass(types.KindScrub),
}

var deepScrubCmd = &cobra.Command{
	Use:   "deep-scrub",
	Short: "Deep-scrub all PGs overdue for deep-scrub and exit",
	RunE:  runPass(types.KindDeepScrub),
}

// runPass builds the RunE for a one-shot scheduling pass of one kind.
func runPass(kind types.ScrubKind) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}

		sched := scheduler.New(newClient(cfg), cfg, log.WithComponent("scheduler"))

		if cfg.HistoryPath != "" {
			store, err := history.Open(cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer store.Close()
			sched.WithRecorder(store)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		_, err = sched.Run(ctx, kind)
		return err
	}
}
