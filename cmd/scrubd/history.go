package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/scrubd/pkg/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded scrub runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().String("run", "", "Show the commands issued by one run")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	if cfg.HistoryPath == "" {
		return fmt.Errorf("no history database configured (set history_path or --history)")
	}

	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if runID, _ := cmd.Flags().GetString("run"); runID != "" {
		recs, err := store.ListCommands(runID)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			line := fmt.Sprintf("%s  %s %s", rec.IssuedAt.Format("2006-01-02 15:04:05"), rec.Kind, rec.PGID)
			if rec.Error != "" {
				line += "  FAILED: " + rec.Error
			}
			fmt.Println(line)
		}
		return nil
	}

	runs, err := store.ListRuns()
	if err != nil {
		return err
	}
	for _, run := range runs {
		fmt.Printf("%s  %s  %-11s pgs=%d issued=%d failed=%d skipped=%d\n",
			run.StartedAt.Format("2006-01-02 15:04:05"), run.ID, run.Kind,
			run.TotalPGs, run.Issued, run.Failed, run.Skipped)
	}
	return nil
}
