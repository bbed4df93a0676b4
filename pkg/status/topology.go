package status

import (
	"sort"

	"github.com/cuemby/scrubd/pkg/types"
)

// Topology maps placement groups to the OSDs in their acting sets and
// back. Useful for judging how scrub load spreads across storage nodes.
type Topology struct {
	// PGsByOSD lists, per OSD, the PGs it is acting for.
	PGsByOSD map[int][]string

	// OSDsByPG lists, per PG, its acting OSDs in acting-set order.
	OSDsByPG map[string][]int
}

// MapTopology builds the PG/OSD cross-reference from one snapshot.
// PG lists per OSD come out sorted for stable display.
func MapTopology(snapshot types.ClusterSnapshot) Topology {
	topo := Topology{
		PGsByOSD: make(map[int][]string),
		OSDsByPG: make(map[string][]int),
	}

	for _, pg := range snapshot.PGs {
		topo.OSDsByPG[pg.ID] = append([]int(nil), pg.Acting...)
		for _, osd := range pg.Acting {
			topo.PGsByOSD[osd] = append(topo.PGsByOSD[osd], pg.ID)
		}
	}

	for osd := range topo.PGsByOSD {
		sort.Strings(topo.PGsByOSD[osd])
	}

	return topo
}
