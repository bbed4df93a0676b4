package cluster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cuemby/scrubd/pkg/types"
)

// CephClient reaches the cluster through the ceph CLI. Each call is a
// single atomic request/response exchange; there is no session state.
type CephClient struct {
	// Binary is the ceph executable (default "ceph").
	Binary string

	// Timeout bounds a single invocation.
	Timeout time.Duration

	logger zerolog.Logger
}

// NewCephClient creates a client that shells out to the ceph binary.
func NewCephClient(logger zerolog.Logger) *CephClient {
	return &CephClient{
		Binary:  "ceph",
		Timeout: 120 * time.Second,
		logger:  logger,
	}
}

// WithBinary sets the ceph executable path.
func (c *CephClient) WithBinary(binary string) *CephClient {
	if binary != "" {
		c.Binary = binary
	}
	return c
}

// WithTimeout sets the per-invocation timeout.
func (c *CephClient) WithTimeout(timeout time.Duration) *CephClient {
	if timeout > 0 {
		c.Timeout = timeout
	}
	return c
}

// pgDump matches the shape of `ceph pg dump --format=json`. Older
// releases put pg_stats at the top level; newer ones nest it under
// pg_map. Both are accepted.
type pgDump struct {
	PGStats []types.PGStat `json:"pg_stats"`
	PGMap   struct {
		PGStats []types.PGStat `json:"pg_stats"`
	} `json:"pg_map"`
}

// FetchSnapshot runs `ceph pg dump --format=json` and decodes the PG
// list. Any failure, including malformed JSON, is a *types.FetchError.
func (c *CephClient) FetchSnapshot(ctx context.Context) (types.ClusterSnapshot, error) {
	out, err := c.run(ctx, "pg", "dump", "--format=json")
	if err != nil {
		return types.ClusterSnapshot{}, &types.FetchError{Err: err}
	}

	var dump pgDump
	if err := json.Unmarshal([]byte(out), &dump); err != nil {
		return types.ClusterSnapshot{}, &types.FetchError{Err: fmt.Errorf("malformed pg dump: %w", err)}
	}

	pgs := dump.PGStats
	if len(pgs) == 0 {
		pgs = dump.PGMap.PGStats
	}

	c.logger.Debug().Int("pgs", len(pgs)).Msg("fetched cluster snapshot")
	return types.ClusterSnapshot{PGs: pgs}, nil
}

// IssueCommand runs `ceph pg <scrub|deep-scrub> <pgid>` and returns the
// command output. Failures come back as *types.CommandIssueError.
func (c *CephClient) IssueCommand(ctx context.Context, kind types.ScrubKind, pgID string) (string, error) {
	out, err := c.run(ctx, "pg", kind.String(), pgID)
	if err != nil {
		return out, &types.CommandIssueError{PGID: pgID, Kind: kind, Err: err}
	}
	return out, nil
}

// run executes one ceph invocation with captured output.
func (c *CephClient) run(ctx context.Context, args ...string) (string, error) {
	execCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, c.Binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug().Strs("args", args).Msg("running ceph command")

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return stdout.String(), fmt.Errorf("%s %s: %w: %s", c.Binary, strings.Join(args, " "), err, msg)
		}
		return stdout.String(), fmt.Errorf("%s %s: %w", c.Binary, strings.Join(args, " "), err)
	}

	return stdout.String(), nil
}
