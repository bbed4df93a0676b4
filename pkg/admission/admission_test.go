package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuemby/scrubd/pkg/config"
	"github.com/cuemby/scrubd/pkg/types"
)

func snapshotWith(clean, unhealthy int) types.ClusterSnapshot {
	var pgs []types.PGStat
	for i := 0; i < clean; i++ {
		pgs = append(pgs, types.PGStat{State: types.StateClean})
	}
	for i := 0; i < unhealthy; i++ {
		pgs = append(pgs, types.PGStat{State: "active+clean+scrubbing"})
	}
	return types.ClusterSnapshot{PGs: pgs}
}

// TestUnhealthyCount tests the health census over a snapshot
func TestUnhealthyCount(t *testing.T) {
	tests := []struct {
		name      string
		clean     int
		unhealthy int
		expected  int
	}{
		{name: "all clean", clean: 10, unhealthy: 0, expected: 0},
		{name: "some scrubbing", clean: 7, unhealthy: 3, expected: 3},
		{name: "all unhealthy", clean: 0, unhealthy: 4, expected: 4},
		{name: "empty snapshot", clean: 0, unhealthy: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UnhealthyCount(snapshotWith(tt.clean, tt.unhealthy)))
		})
	}
}

// TestCanAdmit tests the admission boundary against the ceiling
func TestCanAdmit(t *testing.T) {
	cfg := config.Default()
	cfg.MaxUnhealthyPGs = 8

	tests := []struct {
		name      string
		unhealthy int
		admit     bool
	}{
		{name: "well below the ceiling", unhealthy: 0, admit: true},
		{name: "one below the ceiling", unhealthy: 7, admit: true},
		{name: "exactly at the ceiling", unhealthy: 8, admit: true},
		{name: "one over the ceiling", unhealthy: 9, admit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := snapshotWith(20, tt.unhealthy)
			assert.Equal(t, tt.admit, CanAdmit(snap, cfg))
		})
	}
}

// TestCanAdmitZeroCeiling tests that a zero ceiling still admits on a
// fully clean cluster
func TestCanAdmitZeroCeiling(t *testing.T) {
	cfg := config.Default()
	cfg.MaxUnhealthyPGs = 0

	assert.True(t, CanAdmit(snapshotWith(5, 0), cfg))
	assert.False(t, CanAdmit(snapshotWith(5, 1), cfg))
}
