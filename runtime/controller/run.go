package controller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/procsim/progress"
	"github.com/viant/procsim/runtime/process"
	"github.com/viant/procsim/tracing"
)

// run is one generation of records. It ends exactly once, either completed
// or cancelled.
type run struct {
	id        string
	records   []*process.Record
	tracker   *progress.Progress
	ctx       context.Context
	cancel    context.CancelFunc
	span      *tracing.Span
	startedAt time.Time

	wg        sync.WaitGroup
	once      sync.Once
	done      chan struct{}
	cancelled atomic.Bool
	report    *process.RunReport
}

func (r *run) isDone() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// finish builds the final report and closes done; it returns false when the
// run already ended.
func (r *run) finish(state string, cb func(report *process.RunReport)) bool {
	finished := false
	r.once.Do(func() {
		finished = true
		if state == process.RunStateCancelled {
			r.cancelled.Store(true)
		}
		report := process.NewRunReport(r.id, state, r.startedAt, process.Snapshots(r.records))
		now := time.Now()
		report.FinishedAt = &now
		r.report = report
		if cb != nil {
			cb(report)
		}
		close(r.done)
	})
	return finished
}
