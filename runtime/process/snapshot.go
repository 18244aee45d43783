package process

import "time"

// Snapshot is an immutable copy of a Record handed to observers.
type Snapshot struct {
	ID              int                     `json:"id" yaml:"id"`
	Priority        int                     `json:"priority" yaml:"priority"`
	EstimatedTime   float64                 `json:"estimatedTime" yaml:"estimatedTime"`
	CycleHint       int                     `json:"cycleHint" yaml:"cycleHint"`
	Core            int                     `json:"core" yaml:"core"`
	Thread          int                     `json:"thread" yaml:"thread"`
	Memory          int                     `json:"memory" yaml:"memory"`
	NumCycles       int                     `json:"numCycles" yaml:"numCycles"`
	State           State                   `json:"state" yaml:"state"`
	CyclesCompleted int                     `json:"cyclesCompleted" yaml:"cyclesCompleted"`
	ActualTime      float64                 `json:"actualTime" yaml:"actualTime"`
	StateCounts     map[State]int           `json:"stateCounts,omitempty" yaml:"stateCounts,omitempty"`
	StateTime       map[State]time.Duration `json:"stateTime,omitempty" yaml:"stateTime,omitempty"`
	UpdatedAt       time.Time               `json:"updatedAt" yaml:"updatedAt"`
	FinishedAt      *time.Time              `json:"finishedAt,omitempty" yaml:"finishedAt,omitempty"`
}

// Progress returns actual time as a percentage of the estimate.
func (s Snapshot) Progress() float64 {
	if s.EstimatedTime <= 0 {
		return 0
	}
	return s.ActualTime / s.EstimatedTime * 100
}

// CycleRate returns the average actual time per completed cycle.
func (s Snapshot) CycleRate() float64 {
	if s.CyclesCompleted == 0 {
		return 0
	}
	return s.ActualTime / float64(s.CyclesCompleted)
}
