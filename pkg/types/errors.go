package types

import "fmt"

// FetchError wraps a failure to obtain or decode a cluster snapshot.
// It is fatal to the operation that needed the snapshot; retrying is the
// caller's business.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch cluster snapshot: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FieldParseError reports a PG record whose scrub metadata could not be
// read. It is scoped to a single PG; callers decide whether to skip the
// PG or abort.
type FieldParseError struct {
	PGID  string
	Field string
	Err   error
}

func (e *FieldParseError) Error() string {
	return fmt.Sprintf("pg %s: cannot parse %s: %v", e.PGID, e.Field, e.Err)
}

func (e *FieldParseError) Unwrap() error {
	return e.Err
}

// CommandIssueError reports a scrub command the cluster rejected or that
// failed to execute. Non-fatal; iteration over remaining PGs continues.
type CommandIssueError struct {
	PGID string
	Kind ScrubKind
	Err  error
}

func (e *CommandIssueError) Error() string {
	return fmt.Sprintf("failed to issue %s for pg %s: %v", e.Kind, e.PGID, e.Err)
}

func (e *CommandIssueError) Unwrap() error {
	return e.Err
}
