package memory

import (
	"context"
	"sync"

	"github.com/wardvision/scout/internal/domain/refreshjob"
)

// RefreshJobTracker keeps per-team refresh jobs in process memory. Jobs
// do not survive a restart; a poller after a restart simply sees
// StatusNone and can start again.
type RefreshJobTracker struct {
	mu   sync.RWMutex
	jobs map[string]*refreshjob.Job
}

func NewRefreshJobTracker() *RefreshJobTracker {
	return &RefreshJobTracker{jobs: make(map[string]*refreshjob.Job)}
}

func (t *RefreshJobTracker) Begin(_ context.Context, teamID string, total int) (refreshjob.Job, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.jobs[teamID]; ok && existing.Status == refreshjob.StatusRunning {
		return snapshot(existing), false, nil
	}

	job := &refreshjob.Job{
		TeamID:  teamID,
		Status:  refreshjob.StatusRunning,
		Total:   total,
		Results: []refreshjob.Result{},
	}
	t.jobs[teamID] = job

	return snapshot(job), true, nil
}

func (t *RefreshJobTracker) Snapshot(_ context.Context, teamID string) (refreshjob.Job, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	job, ok := t.jobs[teamID]
	if !ok {
		return refreshjob.None(teamID), nil
	}

	return snapshot(job), nil
}

func (t *RefreshJobTracker) RecordStart(_ context.Context, teamID, playerName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[teamID]
	if !ok || job.Status != refreshjob.StatusRunning {
		return nil
	}

	name := playerName
	job.Current = &name

	return nil
}

func (t *RefreshJobTracker) RecordResult(_ context.Context, teamID string, result refreshjob.Result) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[teamID]
	if !ok || job.Status != refreshjob.StatusRunning {
		return nil
	}

	job.Results = append(job.Results, result)
	job.Done++

	return nil
}

func (t *RefreshJobTracker) Complete(_ context.Context, teamID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[teamID]
	if !ok {
		return nil
	}

	job.Status = refreshjob.StatusComplete
	job.Current = nil

	return nil
}

func snapshot(job *refreshjob.Job) refreshjob.Job {
	out := *job
	if job.Current != nil {
		current := *job.Current
		out.Current = &current
	}
	out.Results = make([]refreshjob.Result, len(job.Results))
	copy(out.Results, job.Results)

	return out
}
