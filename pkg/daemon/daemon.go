// Package daemon runs scrubd continuously: scrub and deep-scrub passes
// on cron schedules, periodic status collection, and an HTTP endpoint
// exposing Prometheus metrics and daemon health.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/cuemby/scrubd/pkg/cluster"
	"github.com/cuemby/scrubd/pkg/config"
	"github.com/cuemby/scrubd/pkg/metrics"
	"github.com/cuemby/scrubd/pkg/scheduler"
	"github.com/cuemby/scrubd/pkg/status"
	"github.com/cuemby/scrubd/pkg/types"
)

// Daemon wires the scheduler, reporter and observability surface into a
// long-running process.
type Daemon struct {
	cfg      config.Config
	client   cluster.Client
	sched    *scheduler.Scheduler
	reporter *status.Reporter
	logger   zerolog.Logger

	cron   *cron.Cron
	server *http.Server

	// runMu serializes scrub passes; overlapping scrub and deep-scrub
	// runs would double-count against the admission ceiling.
	runMu  sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	stopCh chan struct{}
}

// New creates a daemon around an already-constructed scheduler and
// reporter.
func New(cfg config.Config, client cluster.Client, sched *scheduler.Scheduler, reporter *status.Reporter, logger zerolog.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())
	return &Daemon{
		cfg:      cfg,
		client:   client,
		sched:    sched,
		reporter: reporter,
		logger:   logger,
		cron:     cron.New(),
		ctx:      ctx,
		cancel:   cancel,
		stopCh:   make(chan struct{}),
	}
}

// Start registers the cron entries, launches the status loop and serves
// the metrics endpoint. It returns once everything is running.
func (d *Daemon) Start() error {
	if _, err := d.cron.AddFunc(d.cfg.ScrubSchedule, func() {
		d.runPass(types.KindScrub)
	}); err != nil {
		return fmt.Errorf("invalid scrub schedule %q: %w", d.cfg.ScrubSchedule, err)
	}

	if _, err := d.cron.AddFunc(d.cfg.DeepScrubSchedule, func() {
		d.runPass(types.KindDeepScrub)
	}); err != nil {
		return fmt.Errorf("invalid deep-scrub schedule %q: %w", d.cfg.DeepScrubSchedule, err)
	}

	go d.statusLoop()

	if d.cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		mux.HandleFunc("/health", metrics.HealthHandler())

		d.server = &http.Server{Addr: d.cfg.MetricsAddr, Handler: mux}
		go func() {
			if err := d.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				d.logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
		d.logger.Info().Str("addr", d.cfg.MetricsAddr).Msg("metrics server started")
	}

	d.cron.Start()
	d.logger.Info().
		Str("scrub_schedule", d.cfg.ScrubSchedule).
		Str("deep_scrub_schedule", d.cfg.DeepScrubSchedule).
		Msg("daemon started")

	return nil
}

// Stop cancels any in-flight pass at its next suspension point, stops
// the cron entries and shuts down the metrics server.
func (d *Daemon) Stop() {
	d.cancel()
	close(d.stopCh)

	stopCtx := d.cron.Stop()
	<-stopCtx.Done()

	if d.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = d.server.Shutdown(shutdownCtx)
	}

	d.logger.Info().Msg("daemon stopped")
}

// runPass executes one scheduling pass. Passes never overlap.
func (d *Daemon) runPass(kind types.ScrubKind) {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	if d.ctx.Err() != nil {
		return
	}

	sum, err := d.sched.Run(d.ctx, kind)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		d.logger.Error().Err(err).Str("kind", kind.String()).Msg("scheduling pass failed")
		metrics.UpdateComponent("scheduler", false, err.Error())
		return
	}

	metrics.UpdateComponent("scheduler", true, "")
	d.logger.Info().
		Str("kind", kind.String()).
		Int("issued", sum.Issued).
		Int("failed", sum.Failed).
		Msg("scheduling pass complete")
}

// statusLoop periodically collects the status summary so the overdue
// and error gauges stay current between scrub passes.
func (d *Daemon) statusLoop() {
	ticker := time.NewTicker(d.cfg.StatusInterval())
	defer ticker.Stop()

	// Collect immediately on start
	d.collectStatus()

	for {
		select {
		case <-ticker.C:
			d.collectStatus()
		case <-d.stopCh:
			return
		}
	}
}

func (d *Daemon) collectStatus() {
	snapshot, err := d.client.FetchSnapshot(d.ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		d.logger.Error().Err(err).Msg("status collection failed")
		metrics.UpdateComponent("cluster", false, err.Error())
		return
	}

	metrics.UpdateComponent("cluster", true, "")
	d.reporter.Report(snapshot, time.Now())
}
