package policy

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/scrubd/pkg/config"
	"github.com/cuemby/scrubd/pkg/types"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func stamp(t time.Time) string {
	return t.Format(StampLayout)
}

// TestIsDue tests the staleness comparison for both kinds
func TestIsDue(t *testing.T) {
	cfg := config.Default() // scrub 3d, deep-scrub 7d

	tests := []struct {
		name string
		pg   types.PGStat
		kind types.ScrubKind
		due  bool
	}{
		{
			name: "scrubbed just now is not due",
			pg:   types.PGStat{ID: "1.0", LastScrubStamp: stamp(now)},
			kind: types.KindScrub,
			due:  false,
		},
		{
			name: "scrubbed one day past the interval is due",
			pg:   types.PGStat{ID: "1.1", LastScrubStamp: stamp(now.AddDate(0, 0, -4))},
			kind: types.KindScrub,
			due:  true,
		},
		{
			name: "stamp exactly on the threshold is not due",
			pg:   types.PGStat{ID: "1.2", LastScrubStamp: stamp(now.AddDate(0, 0, -3))},
			kind: types.KindScrub,
			due:  false,
		},
		{
			name: "one second older than the threshold is due",
			pg:   types.PGStat{ID: "1.3", LastScrubStamp: stamp(now.AddDate(0, 0, -3).Add(-time.Second))},
			kind: types.KindScrub,
			due:  true,
		},
		{
			name: "deep-scrub uses its own interval",
			pg: types.PGStat{
				ID:                 "1.4",
				LastScrubStamp:     stamp(now),
				LastDeepScrubStamp: stamp(now.AddDate(0, 0, -8)),
			},
			kind: types.KindDeepScrub,
			due:  true,
		},
		{
			name: "deep-scrub within its interval is not due",
			pg: types.PGStat{
				ID:                 "1.5",
				LastScrubStamp:     stamp(now.AddDate(0, 0, -30)),
				LastDeepScrubStamp: stamp(now.AddDate(0, 0, -6)),
			},
			kind: types.KindDeepScrub,
			due:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due, err := IsDue(tt.pg, tt.kind, cfg, now)
			require.NoError(t, err)
			assert.Equal(t, tt.due, due)
		})
	}
}

// TestIsDueParseErrors tests that unreadable stamps surface as typed
// errors rather than a guessed verdict
func TestIsDueParseErrors(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name  string
		pg    types.PGStat
		kind  types.ScrubKind
		field string
	}{
		{
			name:  "missing scrub stamp",
			pg:    types.PGStat{ID: "2.0"},
			kind:  types.KindScrub,
			field: "last_scrub_stamp",
		},
		{
			name:  "missing deep-scrub stamp",
			pg:    types.PGStat{ID: "2.1", LastScrubStamp: stamp(now)},
			kind:  types.KindDeepScrub,
			field: "last_deep_scrub_stamp",
		},
		{
			name:  "malformed stamp",
			pg:    types.PGStat{ID: "2.2", LastScrubStamp: "yesterday-ish"},
			kind:  types.KindScrub,
			field: "last_scrub_stamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := IsDue(tt.pg, tt.kind, cfg, now)
			require.Error(t, err)

			var parseErr *types.FieldParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.pg.ID, parseErr.PGID)
			assert.Equal(t, tt.field, parseErr.Field)
		})
	}
}

// TestIsDueCustomInterval tests that configured intervals are honoured
func TestIsDueCustomInterval(t *testing.T) {
	cfg := config.Default()
	cfg.ScrubIntervalDays = 10

	pg := types.PGStat{ID: "3.0", LastScrubStamp: stamp(now.AddDate(0, 0, -5))}

	due, err := IsDue(pg, types.KindScrub, cfg, now)
	require.NoError(t, err)
	assert.False(t, due, "5 days old against a 10 day interval")

	cfg.ScrubIntervalDays = 4
	due, err = IsDue(pg, types.KindScrub, cfg, now)
	require.NoError(t, err)
	assert.True(t, due, "5 days old against a 4 day interval")
}
