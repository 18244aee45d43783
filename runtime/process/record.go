package process

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/viant/procsim/internal/clock"
)

// Record represents one simulated process. Randomised attributes are fixed at
// creation; lifecycle fields are mutated only by the runner owning the record.
type Record struct {
	ID            int     `json:"id"`
	Priority      int     `json:"priority"`
	EstimatedTime float64 `json:"estimatedTime"`
	CycleHint     int     `json:"cycleHint"`
	Core          int     `json:"core"`
	Thread        int     `json:"thread"`
	Memory        int     `json:"memory"`
	NumCycles     int     `json:"numCycles"`

	State           State                   `json:"state"`
	CyclesCompleted int                     `json:"cyclesCompleted"`
	ActualTime      float64                 `json:"actualTime"`
	StateCounts     map[State]int           `json:"stateCounts"`
	StateTime       map[State]time.Duration `json:"stateTime"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
	FinishedAt      *time.Time              `json:"finishedAt,omitempty"`

	mu sync.RWMutex
}

// NewRecord creates a record in the New state.
func NewRecord(id, priority int, estimatedTime float64, numCycles int) *Record {
	now := clock.Now()
	return &Record{
		ID:            id,
		Priority:      priority,
		EstimatedTime: estimatedTime,
		NumCycles:     numCycles,
		State:         StateNew,
		StateCounts:   map[State]int{StateNew: 1},
		StateTime:     make(map[State]time.Duration),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// GetState returns the current state
func (r *Record) GetState() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.State
}

// Transition moves the record to next, enforcing the lifecycle state machine.
func (r *Record) Transition(next State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.State.IsTerminal() {
		return fmt.Errorf("process %d: %w", r.ID, ErrTerminated)
	}
	if !r.State.CanTransition(next) {
		return fmt.Errorf("process %d: %s -> %s: %w", r.ID, r.State, next, ErrInvalidTransition)
	}
	if next == StateTerminated && r.CyclesCompleted != r.NumCycles {
		return fmt.Errorf("process %d: terminating after %d/%d cycles: %w", r.ID, r.CyclesCompleted, r.NumCycles, ErrInvalidTransition)
	}
	now := clock.Now()
	r.StateTime[r.State] += now.Sub(r.UpdatedAt)
	r.State = next
	r.StateCounts[next]++
	r.UpdatedAt = now
	if next == StateTerminated {
		r.FinishedAt = &now
	}
	return nil
}

// CompleteCycle records a finished Running phase that lasted elapsed time units.
func (r *Record) CompleteCycle(elapsed float64) error {
	if elapsed < 0 || math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		return fmt.Errorf("process %d: %v: %w", r.ID, elapsed, ErrInvalidElapsed)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.State.IsTerminal() {
		return fmt.Errorf("process %d: %w", r.ID, ErrTerminated)
	}
	if r.CyclesCompleted >= r.NumCycles {
		return fmt.Errorf("process %d: %w", r.ID, ErrCycleOverflow)
	}
	r.CyclesCompleted++
	r.ActualTime += elapsed
	return nil
}

// NominalCycleTime returns the per-cycle share of the estimated time.
func (r *Record) NominalCycleTime() float64 {
	if r.NumCycles <= 0 {
		return 0
	}
	return r.EstimatedTime / float64(r.NumCycles)
}

// RunningTime returns the synthetic duration of one Running phase: the
// nominal cycle time divided by priority.
func (r *Record) RunningTime() float64 {
	if r.Priority <= 0 {
		return r.NominalCycleTime()
	}
	return r.NominalCycleTime() / float64(r.Priority)
}

// IsLastCycle reports whether the cycles completed so far exhaust the assignment.
func (r *Record) IsLastCycle() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.CyclesCompleted >= r.NumCycles
}

// Snapshot returns a read-only copy of the record.
func (r *Record) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret := Snapshot{
		ID:              r.ID,
		Priority:        r.Priority,
		EstimatedTime:   r.EstimatedTime,
		CycleHint:       r.CycleHint,
		Core:            r.Core,
		Thread:          r.Thread,
		Memory:          r.Memory,
		NumCycles:       r.NumCycles,
		State:           r.State,
		CyclesCompleted: r.CyclesCompleted,
		ActualTime:      r.ActualTime,
		StateCounts:     make(map[State]int, len(r.StateCounts)),
		StateTime:       make(map[State]time.Duration, len(r.StateTime)),
		UpdatedAt:       r.UpdatedAt,
	}
	for k, v := range r.StateCounts {
		ret.StateCounts[k] = v
	}
	for k, v := range r.StateTime {
		ret.StateTime[k] = v
	}
	if r.FinishedAt != nil {
		finished := *r.FinishedAt
		ret.FinishedAt = &finished
	}
	return ret
}
