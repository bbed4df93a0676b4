package daemon

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/scrubd/pkg/config"
	"github.com/cuemby/scrubd/pkg/scheduler"
	"github.com/cuemby/scrubd/pkg/status"
	"github.com/cuemby/scrubd/pkg/types"
)

// stubClient always returns an empty, healthy snapshot.
type stubClient struct{}

func (stubClient) FetchSnapshot(ctx context.Context) (types.ClusterSnapshot, error) {
	return types.ClusterSnapshot{}, nil
}

func (stubClient) IssueCommand(ctx context.Context, kind types.ScrubKind, pgID string) (string, error) {
	return "", nil
}

func newTestDaemon(cfg config.Config) *Daemon {
	client := stubClient{}
	sched := scheduler.New(client, cfg, zerolog.Nop())
	reporter := status.NewReporter(cfg, zerolog.Nop())
	return New(cfg, client, sched, reporter, zerolog.Nop())
}

// TestStartRejectsBadSchedule tests cron spec validation at startup
func TestStartRejectsBadSchedule(t *testing.T) {
	cfg := config.Default()
	cfg.MetricsAddr = ""
	cfg.ScrubSchedule = "not a cron spec"

	err := newTestDaemon(cfg).Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scrub schedule")
}

// TestStartRejectsBadDeepScrubSchedule tests the second cron entry too
func TestStartRejectsBadDeepScrubSchedule(t *testing.T) {
	cfg := config.Default()
	cfg.MetricsAddr = ""
	cfg.DeepScrubSchedule = "@never"

	err := newTestDaemon(cfg).Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid deep-scrub schedule")
}

// TestLifecycle tests that the daemon starts and stops cleanly
func TestLifecycle(t *testing.T) {
	cfg := config.Default()
	cfg.MetricsAddr = ""
	cfg.StatusIntervalSeconds = 1

	d := newTestDaemon(cfg)
	require.NoError(t, d.Start())

	// Give the status loop a moment to run its initial pass.
	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		d.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop in time")
	}
}
