package types

import (
	"time"
)

// ScrubKind selects between the two tiers of PG maintenance.
// The value doubles as the ceph command verb ("ceph pg scrub <pgid>").
type ScrubKind string

const (
	KindScrub     ScrubKind = "scrub"
	KindDeepScrub ScrubKind = "deep-scrub"
)

func (k ScrubKind) String() string {
	return string(k)
}

// StateClean is the state tag of a fully healthy placement group. Any
// other state, including transient scrubbing states, counts as unhealthy
// for admission purposes.
const StateClean = "active+clean"

// StatSum carries the per-PG error counters from the cluster dump.
type StatSum struct {
	ScrubErrors     int `json:"num_scrub_errors"`
	DeepScrubErrors int `json:"num_deep_scrub_errors"`
}

// PGStat is one placement group entry from a cluster-wide pg dump.
// Scrub stamps are kept as the raw strings the cluster reports; parsing
// happens at decision time so a malformed stamp surfaces as a
// FieldParseError for exactly the PG and field that carried it.
type PGStat struct {
	ID                 string  `json:"pgid"`
	State              string  `json:"state"`
	LastScrubStamp     string  `json:"last_scrub_stamp"`
	LastDeepScrubStamp string  `json:"last_deep_scrub_stamp"`
	StatSum            StatSum `json:"stat_sum"`
	Acting             []int   `json:"acting"`
}

// Clean reports whether the PG is in the healthy state.
func (p PGStat) Clean() bool {
	return p.State == StateClean
}

// ErrorCount returns the error counter matching the scrub kind.
func (p PGStat) ErrorCount(kind ScrubKind) int {
	if kind == KindDeepScrub {
		return p.StatSum.DeepScrubErrors
	}
	return p.StatSum.ScrubErrors
}

// Stamp returns the raw last-scrub timestamp matching the scrub kind.
func (p PGStat) Stamp(kind ScrubKind) string {
	if kind == KindDeepScrub {
		return p.LastDeepScrubStamp
	}
	return p.LastScrubStamp
}

// ClusterSnapshot is one point-in-time dump of every PG in the cluster.
// Snapshots are immutable once fetched and must be re-fetched for every
// decision; the whole point of polling is to observe the effect of
// commands issued against earlier snapshots.
type ClusterSnapshot struct {
	PGs []PGStat
}

// CommandRecord is the durable trace of one issued scrub command.
type CommandRecord struct {
	RunID    string    `json:"run_id"`
	PGID     string    `json:"pg_id"`
	Kind     ScrubKind `json:"kind"`
	IssuedAt time.Time `json:"issued_at"`
	Output   string    `json:"output,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// RunSummary describes one completed scheduling pass.
type RunSummary struct {
	ID         string    `json:"id"`
	Kind       ScrubKind `json:"kind"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	TotalPGs   int       `json:"total_pgs"`
	Issued     int       `json:"issued"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
}
