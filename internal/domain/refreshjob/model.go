package refreshjob

// Status is the lifecycle state of a team refresh batch.
type Status string

const (
	// StatusNone means no refresh has ever run for the team.
	StatusNone     Status = "none"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
)

// Result records the outcome of one player's scrape within a batch.
type Result struct {
	Player  string `json:"player"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Job is a snapshot of one team's refresh batch. Jobs live only in
// process memory; a team has at most one at a time.
type Job struct {
	TeamID  string   `json:"-"`
	Status  Status   `json:"status"`
	Total   int      `json:"total"`
	Done    int      `json:"done"`
	Current *string  `json:"current"`
	Results []Result `json:"results"`
}

// None is the snapshot reported for a team with no job history.
func None(teamID string) Job {
	return Job{TeamID: teamID, Status: StatusNone, Results: []Result{}}
}
