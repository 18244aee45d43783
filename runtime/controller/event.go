package controller

import (
	"github.com/viant/procsim/runtime/process"
)

// ProcessEvent is delivered to observers on every process transition.
type ProcessEvent struct {
	RunID string        `json:"runID"`
	From  process.State `json:"from,omitempty"`
	process.Snapshot
}

// envelope ties a queued payload to the run that produced it.
type envelope struct {
	run     *run
	process *ProcessEvent
	report  *process.RunReport
}
