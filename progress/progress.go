package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/procsim/runtime/process"
)

// Delta represents an incremental counter change. Fields are signed.
type Delta struct {
	Total      int
	New        int
	Ready      int
	Running    int
	Blocked    int
	Terminated int
	Reported   int
}

// Transition returns the delta moving one process from one state to another.
func Transition(from, to process.State) Delta {
	var d Delta
	d.add(from, -1)
	d.add(to, 1)
	return d
}

func (d *Delta) add(state process.State, n int) {
	switch state {
	case process.StateNew:
		d.New += n
	case process.StateReady:
		d.Ready += n
	case process.StateRunning:
		d.Running += n
	case process.StateBlocked:
		d.Blocked += n
	case process.StateTerminated:
		d.Terminated += n
	}
}

// Counters is a point-in-time view of a run's lifecycle counters.
type Counters struct {
	RunID     string
	StartedAt time.Time

	Total      int
	New        int
	Ready      int
	Running    int
	Blocked    int
	Terminated int
	// Reported counts runners that delivered their final report.
	Reported int
}

// Done reports whether every process has reported completion.
func (c Counters) Done() bool {
	return c.Total > 0 && c.Reported >= c.Total
}

// Progress keeps aggregated counters for a single run. It is safe for concurrent use.
type Progress struct {
	counters Counters
	mu       sync.Mutex
	onChange func(Counters)
}

// Update applies the delta and returns the resulting counters. The onChange
// callback, if any, runs outside the critical section.
func (p *Progress) Update(d Delta) Counters {
	if p == nil {
		return Counters{}
	}
	p.mu.Lock()
	p.counters.Total += d.Total
	p.counters.New += d.New
	p.counters.Ready += d.Ready
	p.counters.Running += d.Running
	p.counters.Blocked += d.Blocked
	p.counters.Terminated += d.Terminated
	p.counters.Reported += d.Reported
	snapshot := p.counters
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
	return snapshot
}

// Snapshot returns a copy of the counters.
func (p *Progress) Snapshot() Counters {
	if p == nil {
		return Counters{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counters
}

// OnChange registers a callback invoked after every Update; nil disables it.
func (p *Progress) OnChange(cb func(Counters)) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onChange = cb
	p.mu.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a tracker for runID holding total processes in the
// New state, embeds it in a derived context and returns both.
func WithNewTracker(ctx context.Context, runID string, total int, onChange func(Counters)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		counters: Counters{
			RunID:     runID,
			StartedAt: time.Now(),
			Total:     total,
			New:       total,
		},
		onChange: onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx applies d to the tracker carried by ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
