// Package runner drives one simulated process through its lifecycle:
// New, Ready, then alternating Running and Blocked cycles, and finally
// Terminated. The shared pause gate is consulted before every Running and
// Blocked phase; a phase that has started always runs to completion unless
// the run is torn down.
package runner

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/viant/procsim/internal/clock"
	"github.com/viant/procsim/metrics"
	"github.com/viant/procsim/progress"
	"github.com/viant/procsim/runtime/gate"
	"github.com/viant/procsim/runtime/process"
	"github.com/viant/procsim/tracing"
	"go.uber.org/zap"
)

// Change describes one lifecycle transition. From is empty for the initial New state.
type Change struct {
	From     process.State
	To       process.State
	Snapshot process.Snapshot
}

// Notifier receives every transition of a runner, in order.
type Notifier func(ctx context.Context, change *Change)

// Report is delivered exactly once, when the process terminates.
type Report struct {
	ID              int     `json:"id"`
	Priority        int     `json:"priority"`
	CyclesCompleted int     `json:"cyclesCompleted"`
	EstimatedTime   float64 `json:"estimatedTime"`
	ActualTime      float64 `json:"actualTime"`
}

// Runner executes the lifecycle of a single record.
type Runner struct {
	record   *process.Record
	gate     *gate.Gate
	timing   Timing
	rng      *rand.Rand
	notifier Notifier
	logger   *zap.Logger
	metrics  *metrics.Metrics
	span     *tracing.Span
}

// New creates a runner for record consulting g at phase boundaries.
func New(record *process.Record, g *gate.Gate, options ...Option) (*Runner, error) {
	ret := &Runner{
		record: record,
		gate:   g,
		timing: DefaultTiming(),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.record == nil {
		return nil, fmt.Errorf("record is required")
	}
	if ret.gate == nil {
		return nil, fmt.Errorf("gate is required")
	}
	if err := ret.timing.Validate(); err != nil {
		return nil, err
	}
	if ret.rng == nil {
		ret.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	return ret, nil
}

// Record returns the record driven by the runner.
func (r *Runner) Record() *process.Record {
	return r.record
}

// Run drives the record to Terminated and returns its report. It returns
// ctx.Err() without a report when the context is cancelled first.
func (r *Runner) Run(ctx context.Context) (report *Report, err error) {
	ctx, r.span = tracing.StartSpan(ctx, "process")
	r.span.WithInt("process.id", r.record.ID).
		WithInt("process.priority", r.record.Priority).
		WithInt("process.cycles", r.record.NumCycles).
		WithFloat("process.estimated_time", r.record.EstimatedTime)
	defer func() {
		if report != nil {
			r.span.WithFloat("process.actual_time", report.ActualTime)
		}
		tracing.EndSpan(r.span, err)
	}()

	r.notify(ctx, "", process.StateNew)
	if err = r.wait(ctx, r.timing.Setup); err != nil {
		return nil, err
	}
	if err = r.transition(ctx, process.StateReady); err != nil {
		return nil, err
	}
	readyDelay := r.timing.FirstReady
	for {
		if err = r.wait(ctx, readyDelay); err != nil {
			return nil, err
		}
		if err = r.gate.Wait(ctx); err != nil {
			return nil, err
		}
		if err = r.transition(ctx, process.StateRunning); err != nil {
			return nil, err
		}
		if err = r.execute(ctx); err != nil {
			return nil, err
		}
		if r.record.IsLastCycle() {
			break
		}
		if err = r.gate.Wait(ctx); err != nil {
			return nil, err
		}
		if err = r.transition(ctx, process.StateBlocked); err != nil {
			return nil, err
		}
		if err = r.wait(ctx, r.timing.Blocked); err != nil {
			return nil, err
		}
		if err = r.transition(ctx, process.StateReady); err != nil {
			return nil, err
		}
		readyDelay = r.timing.Ready
	}
	if err = r.transition(ctx, process.StateTerminated); err != nil {
		return nil, err
	}
	r.metrics.Completed(ctx)
	snapshot := r.record.Snapshot()
	return &Report{
		ID:              snapshot.ID,
		Priority:        snapshot.Priority,
		CyclesCompleted: snapshot.CyclesCompleted,
		EstimatedTime:   snapshot.EstimatedTime,
		ActualTime:      snapshot.ActualTime,
	}, nil
}

// execute runs one Running phase: nominal cycle time divided by priority,
// measured against the wall clock.
func (r *Runner) execute(ctx context.Context) error {
	started := clock.Now()
	if err := clock.Sleep(ctx, r.timing.Duration(r.record.RunningTime())); err != nil {
		return err
	}
	elapsed := r.timing.Units(clock.Since(started))
	if err := r.record.CompleteCycle(elapsed); err != nil {
		return err
	}
	r.metrics.Cycle(ctx, r.record.Priority, elapsed)
	return nil
}

func (r *Runner) wait(ctx context.Context, delay process.FloatRange) error {
	return clock.Sleep(ctx, r.timing.Duration(delay.Draw(r.rng)))
}

func (r *Runner) transition(ctx context.Context, to process.State) error {
	from := r.record.GetState()
	if err := r.record.Transition(to); err != nil {
		return err
	}
	progress.UpdateCtx(ctx, progress.Transition(from, to))
	r.metrics.Transition(ctx, string(to))
	r.notify(ctx, from, to)
	return nil
}

func (r *Runner) notify(ctx context.Context, from, to process.State) {
	snapshot := r.record.Snapshot()
	r.span.AddEvent("transition", map[string]string{
		"from":  string(from),
		"to":    string(to),
		"cycle": strconv.Itoa(snapshot.CyclesCompleted),
	})
	r.logger.Debug("process transition",
		zap.Int("id", snapshot.ID),
		zap.Int("priority", snapshot.Priority),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Int("cycles", snapshot.CyclesCompleted),
		zap.Int("numCycles", snapshot.NumCycles),
		zap.Float64("actualTime", snapshot.ActualTime),
	)
	if r.notifier != nil {
		r.notifier(ctx, &Change{From: from, To: to, Snapshot: snapshot})
	}
}
