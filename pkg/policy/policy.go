// Package policy decides whether a placement group is due for
// maintenance based on the staleness of its last scrub stamp.
package policy

import (
	"errors"
	"fmt"
	"time"

	"github.com/cuemby/scrubd/pkg/config"
	"github.com/cuemby/scrubd/pkg/types"
)

// StampLayout is the timestamp format ceph uses in pg dump output.
const StampLayout = "2006-01-02 15:04:05.000000"

var errMissingStamp = errors.New("field missing or empty")

// IsDue reports whether the PG's last scrub of the given kind happened
// more than the configured interval ago. A stamp exactly on the
// threshold is not due; the comparison is strict.
//
// A missing or malformed stamp returns a *types.FieldParseError. It is
// never silently mapped to due or not due; the caller owns that policy.
func IsDue(pg types.PGStat, kind types.ScrubKind, cfg config.Config, now time.Time) (bool, error) {
	field := "last_scrub_stamp"
	if kind == types.KindDeepScrub {
		field = "last_deep_scrub_stamp"
	}

	raw := pg.Stamp(kind)
	if raw == "" {
		return false, &types.FieldParseError{PGID: pg.ID, Field: field, Err: errMissingStamp}
	}

	last, err := time.Parse(StampLayout, raw)
	if err != nil {
		return false, &types.FieldParseError{
			PGID:  pg.ID,
			Field: field,
			Err:   fmt.Errorf("bad timestamp %q: %w", raw, err),
		}
	}

	threshold := now.AddDate(0, 0, -cfg.IntervalDays(kind))
	return last.Before(threshold), nil
}
