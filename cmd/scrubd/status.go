package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/scrubd/pkg/log"
	"github.com/cuemby/scrubd/pkg/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report status information about PGs and exit",
	Long: `Report how many PGs are overdue for scrub and deep-scrub and how many
carry scrub errors. Use -v to see the contributing PGs. No commands are
issued.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().Bool("topology", false, "Also print how PGs map onto OSDs")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshot, err := newClient(cfg).FetchSnapshot(ctx)
	if err != nil {
		return err
	}

	reporter := status.NewReporter(cfg, log.WithComponent("status"))
	reporter.Report(snapshot, time.Now())

	if topology, _ := cmd.Flags().GetBool("topology"); topology {
		printTopology(status.MapTopology(snapshot))
	}

	return nil
}

func printTopology(topo status.Topology) {
	osds := make([]int, 0, len(topo.PGsByOSD))
	for osd := range topo.PGsByOSD {
		osds = append(osds, osd)
	}
	sort.Ints(osds)

	for _, osd := range osds {
		pgs := topo.PGsByOSD[osd]
		fmt.Printf("osd.%d: %d pg(s)\n", osd, len(pgs))
		for _, pg := range pgs {
			fmt.Printf("  %s\n", pg)
		}
	}
}
