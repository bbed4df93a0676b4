// Package admission gates new scrub work on current cluster health.
//
// Scrubbing a PG transiently takes it out of active+clean, so bounding
// the number of unhealthy PGs bounds the blast radius of maintenance.
// The gate is advisory: it re-reads live cluster state on every attempt
// rather than holding a reservation, so two concurrent runs can
// transiently overshoot the ceiling.
package admission

import (
	"github.com/cuemby/scrubd/pkg/config"
	"github.com/cuemby/scrubd/pkg/types"
)

// UnhealthyCount returns the number of PGs not in the active+clean state.
func UnhealthyCount(snapshot types.ClusterSnapshot) int {
	count := 0
	for _, pg := range snapshot.PGs {
		if !pg.Clean() {
			count++
		}
	}
	return count
}

// CanAdmit reports whether new scrub work may be issued. Admission holds
// while the unhealthy count is at or below the configured ceiling.
func CanAdmit(snapshot types.ClusterSnapshot, cfg config.Config) bool {
	return UnhealthyCount(snapshot) <= cfg.MaxUnhealthyPGs
}
