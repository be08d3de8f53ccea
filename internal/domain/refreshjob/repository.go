package refreshjob

import "context"

// Tracker is the in-memory job table keyed by team ID. Snapshots are
// value copies; the background writer and status readers race, so
// implementations guard every access with their own lock.
type Tracker interface {
	// Begin registers a fresh running job for the team unless one is
	// already running, in which case the existing snapshot is returned
	// with started=false. A completed job is replaced.
	Begin(ctx context.Context, teamID string, total int) (Job, bool, error)

	// Snapshot returns the team's current job, or a StatusNone job when
	// the team has never been refreshed.
	Snapshot(ctx context.Context, teamID string) (Job, error)

	// RecordStart marks the named player as the one currently being
	// processed.
	RecordStart(ctx context.Context, teamID, playerName string) error

	// RecordResult appends a per-player outcome and bumps the done
	// counter. Done never decreases.
	RecordResult(ctx context.Context, teamID string, result Result) error

	// Complete transitions the job to StatusComplete and clears the
	// current player marker. The snapshot is retained for polling until
	// the next Begin replaces it.
	Complete(ctx context.Context, teamID string) error
}
