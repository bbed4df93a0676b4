/*
Package scheduler drives one maintenance pass over a Ceph cluster's
placement groups.

A pass fetches a single snapshot to fix the set and order of PGs, then
for each PG that is overdue per pkg/policy it waits for admission per
pkg/admission, issues the scrub command through the cluster client, and
sleeps a per-kind pacing delay before moving on. Admission is always
decided against a freshly fetched snapshot so the scheduler sees the
unhealthy PGs its own commands create.

The run is a single cooperative loop. Sleeping is the only suspension
point, and every sleep goes through the injected Clock so it honours
context cancellation and so tests can simulate time.

Error policy:

  - a snapshot fetch failure aborts the run
  - a PG with an unreadable scrub stamp is skipped with a warning
  - a rejected command is logged and the run continues; no retries

Usage:

	sched := scheduler.New(client, cfg, log.WithComponent("scheduler"))
	summary, err := sched.Run(ctx, types.KindDeepScrub)
*/
package scheduler
