// Package status aggregates snapshot-wide scrub health counters for
// observability. It issues no commands.
package status

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/cuemby/scrubd/pkg/config"
	"github.com/cuemby/scrubd/pkg/metrics"
	"github.com/cuemby/scrubd/pkg/policy"
	"github.com/cuemby/scrubd/pkg/types"
)

// Summary holds the four independent counters produced by one pass over
// a snapshot. A PG may contribute to zero, one, or several counters.
type Summary struct {
	ScrubOverdue     int
	DeepScrubOverdue int
	ScrubErrors      int
	DeepScrubErrors  int
}

// Reporter computes scrub status summaries.
type Reporter struct {
	cfg    config.Config
	logger zerolog.Logger
}

// NewReporter creates a status reporter.
func NewReporter(cfg config.Config, logger zerolog.Logger) *Reporter {
	return &Reporter{cfg: cfg, logger: logger}
}

// Report walks the snapshot once and counts PGs overdue for scrub and
// deep-scrub and PGs carrying scrub or deep-scrub errors. Detail lines
// per contributing PG go out at info level, one summary line per counter
// at warn level. PGs with unreadable stamps are warned about and left
// out of the overdue counters; their error counters still apply.
func (r *Reporter) Report(snapshot types.ClusterSnapshot, now time.Time) Summary {
	var sum Summary

	for _, pg := range snapshot.PGs {
		r.countOverdue(pg, types.KindScrub, now, &sum.ScrubOverdue)
		r.countOverdue(pg, types.KindDeepScrub, now, &sum.DeepScrubOverdue)

		if n := pg.StatSum.ScrubErrors; n > 0 {
			sum.ScrubErrors++
			r.logger.Info().Str("pg", pg.ID).Msgf("%s has %d scrub error(s)", pg.ID, n)
		}
		if n := pg.StatSum.DeepScrubErrors; n > 0 {
			sum.DeepScrubErrors++
			r.logger.Info().Str("pg", pg.ID).Msgf("%s has %d deep-scrub error(s)", pg.ID, n)
		}
	}

	metrics.OverduePGs.WithLabelValues(types.KindScrub.String()).Set(float64(sum.ScrubOverdue))
	metrics.OverduePGs.WithLabelValues(types.KindDeepScrub.String()).Set(float64(sum.DeepScrubOverdue))
	metrics.ErrorPGs.WithLabelValues(types.KindScrub.String()).Set(float64(sum.ScrubErrors))
	metrics.ErrorPGs.WithLabelValues(types.KindDeepScrub.String()).Set(float64(sum.DeepScrubErrors))

	r.logger.Warn().Msgf("Number of PGs that need scrubbing: %d", sum.ScrubOverdue)
	r.logger.Warn().Msgf("Number of PGs that need deep-scrubbing: %d", sum.DeepScrubOverdue)
	r.logger.Warn().Msgf("Number of PGs with scrubbing errors: %d", sum.ScrubErrors)
	r.logger.Warn().Msgf("Number of PGs with deep-scrubbing errors: %d", sum.DeepScrubErrors)

	return sum
}

func (r *Reporter) countOverdue(pg types.PGStat, kind types.ScrubKind, now time.Time, counter *int) {
	due, err := policy.IsDue(pg, kind, r.cfg, now)
	if err != nil {
		var parseErr *types.FieldParseError
		if errors.As(err, &parseErr) {
			r.logger.Warn().Err(err).Str("pg", pg.ID).Msg("cannot judge staleness for PG")
			return
		}
		r.logger.Error().Err(err).Str("pg", pg.ID).Msg("eligibility check failed")
		return
	}
	if !due {
		return
	}

	*counter++
	r.logger.Info().Str("pg", pg.ID).Msgf("%s has not been %sbed since %s", pg.ID, kind, pg.Stamp(kind))
}
