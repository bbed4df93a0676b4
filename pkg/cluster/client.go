package cluster

import (
	"context"

	"github.com/cuemby/scrubd/pkg/types"
)

// Client is the read/write interface to the storage cluster. Reads fetch
// a fresh point-in-time snapshot of every PG; writes issue a single
// scrub command and return whatever text the cluster printed. The core
// never verifies a command's eventual effect beyond what the next
// snapshot reveals.
type Client interface {
	// FetchSnapshot returns the full PG list. Failure is fatal to the
	// operation that needed it; the client does not retry internally.
	FetchSnapshot(ctx context.Context) (types.ClusterSnapshot, error)

	// IssueCommand asks the cluster to scrub or deep-scrub one PG and
	// returns the command output. The output is informational only.
	IssueCommand(ctx context.Context, kind types.ScrubKind, pgID string) (string, error)
}
