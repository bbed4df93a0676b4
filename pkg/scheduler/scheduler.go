package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cuemby/scrubd/pkg/admission"
	"github.com/cuemby/scrubd/pkg/cluster"
	"github.com/cuemby/scrubd/pkg/config"
	"github.com/cuemby/scrubd/pkg/metrics"
	"github.com/cuemby/scrubd/pkg/policy"
	"github.com/cuemby/scrubd/pkg/types"
)

// Recorder persists the trace of a run. The scheduler treats recording
// as best-effort; a failing recorder never stops maintenance.
type Recorder interface {
	RecordCommand(rec types.CommandRecord) error
	RecordRun(sum types.RunSummary) error
}

// nopRecorder is used when no history store is configured.
type nopRecorder struct{}

func (nopRecorder) RecordCommand(types.CommandRecord) error { return nil }
func (nopRecorder) RecordRun(types.RunSummary) error        { return nil }

// Scheduler drives one maintenance pass over the cluster: it walks the
// PGs of a snapshot, scrubs the ones whose last maintenance is older
// than the configured interval, and throttles itself against the number
// of unhealthy PGs so maintenance never floods the cluster.
type Scheduler struct {
	client   cluster.Client
	cfg      config.Config
	clock    Clock
	recorder Recorder
	logger   zerolog.Logger
}

// New creates a scheduler with the production clock and no recorder.
func New(client cluster.Client, cfg config.Config, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		client:   client,
		cfg:      cfg,
		clock:    realClock{},
		recorder: nopRecorder{},
		logger:   logger,
	}
}

// WithClock replaces the clock. Used by tests to simulate time.
func (s *Scheduler) WithClock(clock Clock) *Scheduler {
	s.clock = clock
	return s
}

// WithRecorder attaches a run history recorder.
func (s *Scheduler) WithRecorder(rec Recorder) *Scheduler {
	if rec != nil {
		s.recorder = rec
	}
	return s
}

// Run performs one scheduling pass for the given kind.
//
// One snapshot fixes the set and order of PGs to visit. Eligibility is
// decided per PG against the clock; admission is re-checked against a
// fresh snapshot before every command, sleeping the poll interval while
// the cluster sits above the unhealthy ceiling. That wait has no
// timeout: maintenance must not force unsafe concurrency, so it blocks
// until the cluster drains or the context is cancelled.
//
// A PG whose scrub stamp cannot be parsed is skipped with a warning. A
// rejected command is logged and iteration continues; there are no
// retries within a run. Only a snapshot fetch failure aborts the run.
func (s *Scheduler) Run(ctx context.Context, kind types.ScrubKind) (types.RunSummary, error) {
	runID := uuid.New().String()
	logger := s.logger.With().Str("run_id", runID).Str("kind", kind.String()).Logger()

	summary := types.RunSummary{
		ID:        runID,
		Kind:      kind,
		StartedAt: s.clock.Now(),
	}

	snapshot, err := s.client.FetchSnapshot(ctx)
	if err != nil {
		return summary, fmt.Errorf("scheduling run aborted: %w", err)
	}
	summary.TotalPGs = len(snapshot.PGs)

	logger.Info().Int("pgs", summary.TotalPGs).Msg("starting scheduling pass")

	for _, pg := range snapshot.PGs {
		due, err := policy.IsDue(pg, kind, s.cfg, s.clock.Now())
		if err != nil {
			var parseErr *types.FieldParseError
			if errors.As(err, &parseErr) {
				logger.Warn().Err(err).Str("pg", pg.ID).Msg("skipping PG with unreadable scrub stamp")
				summary.Skipped++
				metrics.StampParseFailuresTotal.Inc()
				continue
			}
			return summary, err
		}
		if !due {
			continue
		}

		if err := s.waitForAdmission(ctx, logger); err != nil {
			return summary, err
		}

		logger.Warn().Str("pg", pg.ID).Msgf("performing %s on PG %s", kind, pg.ID)
		rec := types.CommandRecord{
			RunID:    runID,
			PGID:     pg.ID,
			Kind:     kind,
			IssuedAt: s.clock.Now(),
		}

		out, err := s.client.IssueCommand(ctx, kind, pg.ID)
		rec.Output = strings.TrimSpace(out)
		if err != nil {
			logger.Error().Err(err).Str("pg", pg.ID).Msg("scrub command failed")
			rec.Error = err.Error()
			summary.Failed++
			metrics.CommandFailuresTotal.WithLabelValues(kind.String()).Inc()
		} else {
			if rec.Output != "" {
				logger.Info().Str("pg", pg.ID).Msg(rec.Output)
			}
			summary.Issued++
			metrics.CommandsIssuedTotal.WithLabelValues(kind.String()).Inc()
		}

		if err := s.recorder.RecordCommand(rec); err != nil {
			logger.Error().Err(err).Msg("failed to record command")
		}

		// Pace issuances independent of admission control so commands
		// do not burst the instant admission opens up.
		if err := s.clock.Sleep(ctx, s.cfg.InterOpDelay(kind)); err != nil {
			return summary, err
		}
	}

	summary.FinishedAt = s.clock.Now()
	metrics.RunDuration.WithLabelValues(kind.String()).Observe(summary.FinishedAt.Sub(summary.StartedAt).Seconds())

	if err := s.recorder.RecordRun(summary); err != nil {
		logger.Error().Err(err).Msg("failed to record run summary")
	}

	logger.Warn().
		Int("issued", summary.Issued).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Msgf("all PGs have been %s'd", kind)

	return summary, nil
}

// waitForAdmission blocks until the cluster has capacity for more scrub
// work. Every attempt fetches a fresh snapshot; health drifts with both
// our own commands and unrelated cluster events, so stale state is
// worthless here.
func (s *Scheduler) waitForAdmission(ctx context.Context, logger zerolog.Logger) error {
	for {
		snapshot, err := s.client.FetchSnapshot(ctx)
		if err != nil {
			return fmt.Errorf("admission check failed: %w", err)
		}

		unhealthy := admission.UnhealthyCount(snapshot)
		metrics.UnhealthyPGs.Set(float64(unhealthy))
		if unhealthy <= s.cfg.MaxUnhealthyPGs {
			return nil
		}

		logger.Info().
			Int("unhealthy", unhealthy).
			Int("ceiling", s.cfg.MaxUnhealthyPGs).
			Dur("poll_interval", s.cfg.PollInterval()).
			Msg("cluster above unhealthy ceiling, sleeping")
		metrics.AdmissionWaitsTotal.Inc()

		if err := s.clock.Sleep(ctx, s.cfg.PollInterval()); err != nil {
			return err
		}
	}
}
