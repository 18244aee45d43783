package process

import "time"

// Run states recorded in reports.
const (
	RunStateRunning   = "running"
	RunStateCompleted = "completed"
	RunStateCancelled = "cancelled"
)

// RunReport summarises one simulation run.
type RunReport struct {
	ID             string     `json:"id" yaml:"id"`
	State          string     `json:"state" yaml:"state"`
	ProcessCount   int        `json:"processCount" yaml:"processCount"`
	Completed      int        `json:"completed" yaml:"completed"`
	Processes      []Snapshot `json:"processes" yaml:"processes"`
	TotalEstimated float64    `json:"totalEstimated" yaml:"totalEstimated"`
	TotalActual    float64    `json:"totalActual" yaml:"totalActual"`
	StartedAt      time.Time  `json:"startedAt" yaml:"startedAt"`
	FinishedAt     *time.Time `json:"finishedAt,omitempty" yaml:"finishedAt,omitempty"`
}

// NewRunReport builds a report from snapshots ordered by priority.
func NewRunReport(id, state string, startedAt time.Time, snapshots []Snapshot) *RunReport {
	ret := &RunReport{
		ID:           id,
		State:        state,
		ProcessCount: len(snapshots),
		Processes:    snapshots,
		StartedAt:    startedAt,
	}
	for _, snapshot := range snapshots {
		ret.TotalEstimated += snapshot.EstimatedTime
		ret.TotalActual += snapshot.ActualTime
		if snapshot.State.IsTerminal() {
			ret.Completed++
		}
	}
	return ret
}
