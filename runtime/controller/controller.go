// Package controller owns the simulation run: it generates the records,
// launches one runner per record, exposes the pause gate and delivers
// process and run-complete notifications to observers through an ordered
// event queue.
package controller

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/viant/procsim/internal/idgen"
	"github.com/viant/procsim/metrics"
	"github.com/viant/procsim/progress"
	"github.com/viant/procsim/runtime/gate"
	"github.com/viant/procsim/runtime/process"
	"github.com/viant/procsim/runtime/runner"
	"github.com/viant/procsim/service/dao"
	"github.com/viant/procsim/service/event"
	"github.com/viant/procsim/service/messaging/memory"
	"github.com/viant/procsim/tracing"
	"go.uber.org/zap"
)

// Controller starts, pauses, resumes and tears down simulation runs.
type Controller struct {
	processConfig process.Config
	timing        runner.Timing
	queueConfig   memory.Config
	logger        *zap.Logger
	metrics       *metrics.Metrics
	reports       dao.Service[string, process.RunReport]

	rng   *rand.Rand
	rngMu sync.Mutex

	gate   *gate.Gate
	events *event.Service

	lifecycle sync.Mutex // serialises StartRun and Shutdown
	mu        sync.RWMutex
	run       *run
	closed    bool

	observerMu        sync.RWMutex
	processObservers  []func(ProcessEvent)
	completeObservers []func(process.RunReport)
}

// New creates a controller with an open gate and a running event listener.
func New(options ...Option) *Controller {
	ret := &Controller{
		processConfig: process.DefaultConfig(),
		timing:        runner.DefaultTiming(),
		queueConfig:   memory.DefaultConfig(),
		logger:        zap.NewNop(),
		gate:          gate.New(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	if ret.rng == nil {
		ret.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	ret.events = event.New(event.WithQueueConfig(ret.queueConfig), event.WithLogger(ret.logger))
	ret.events.SetListener(ret.dispatch)
	return ret
}

// OnProcessEvent registers an observer of process transitions.
func (c *Controller) OnProcessEvent(observer func(ProcessEvent)) {
	if observer == nil {
		return
	}
	c.observerMu.Lock()
	defer c.observerMu.Unlock()
	c.processObservers = append(c.processObservers, observer)
}

// OnRunComplete registers an observer of run completion.
func (c *Controller) OnRunComplete(observer func(process.RunReport)) {
	if observer == nil {
		return
	}
	c.observerMu.Lock()
	defer c.observerMu.Unlock()
	c.completeObservers = append(c.completeObservers, observer)
}

// StartRun tears down any previous run and starts n new processes. It
// returns once the runners are launched.
func (c *Controller) StartRun(ctx context.Context, n int) error {
	if n <= 0 {
		return fmt.Errorf("process count %d: %w", n, process.ErrInvalidConfiguration)
	}
	if err := c.timing.Validate(); err != nil {
		return err
	}
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	c.mu.RLock()
	closed, previous := c.closed, c.run
	c.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	c.rngMu.Lock()
	records, err := process.Generate(n, c.processConfig, c.rng)
	c.rngMu.Unlock()
	if err != nil {
		return err
	}
	process.SortByPriority(records)

	if previous != nil {
		c.teardown(ctx, previous)
	}

	r := &run{
		id:        idgen.New(),
		records:   records,
		startedAt: time.Now(),
		done:      make(chan struct{}),
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	runCtx, r.span = tracing.StartSpan(runCtx, "run")
	r.span.WithAttributes(map[string]string{"run.id": r.id}).WithInt("run.processes", n)
	runCtx, r.tracker = progress.WithNewTracker(runCtx, r.id, n, nil)
	r.ctx, r.cancel = runCtx, cancel

	runners := make([]*runner.Runner, 0, len(records))
	logger := c.logger.With(zap.String("runID", r.id))
	for _, record := range records {
		c.rngMu.Lock()
		rng := rand.New(rand.NewPCG(c.rng.Uint64(), c.rng.Uint64()))
		c.rngMu.Unlock()
		procRunner, err := runner.New(record, c.gate,
			runner.WithTiming(c.timing),
			runner.WithRand(rng),
			runner.WithLogger(logger),
			runner.WithMetrics(c.metrics),
			runner.WithNotifier(c.notifier(r)),
		)
		if err != nil {
			cancel()
			tracing.EndSpan(r.span, err)
			return err
		}
		runners = append(runners, procRunner)
	}

	c.gate.Resume()
	c.mu.Lock()
	c.run = r
	c.mu.Unlock()

	c.saveReport(runCtx, process.NewRunReport(r.id, process.RunStateRunning, r.startedAt, process.Snapshots(records)))
	c.metrics.Run(runCtx, "started")
	logger.Info("run started", zap.Int("processes", n))

	for _, procRunner := range runners {
		r.wg.Add(1)
		go c.execute(r, procRunner)
	}
	return nil
}

func (c *Controller) execute(r *run, procRunner *runner.Runner) {
	defer r.wg.Done()
	report, err := procRunner.Run(r.ctx)
	if err != nil {
		if r.ctx.Err() == nil {
			c.logger.Error("process failed", zap.String("runID", r.id), zap.Int("id", procRunner.Record().ID), zap.Error(err))
		}
		return
	}
	c.logger.Debug("process reported",
		zap.String("runID", r.id),
		zap.Int("id", report.ID),
		zap.Int("priority", report.Priority),
		zap.Int("cycles", report.CyclesCompleted),
		zap.Float64("estimatedTime", report.EstimatedTime),
		zap.Float64("actualTime", report.ActualTime),
	)
	if counters := r.tracker.Update(progress.Delta{Reported: 1}); counters.Done() {
		c.complete(r)
	}
}

func (c *Controller) complete(r *run) {
	r.finish(process.RunStateCompleted, func(report *process.RunReport) {
		c.saveReport(r.ctx, report)
		c.metrics.Run(r.ctx, process.RunStateCompleted)
		r.span.WithFloat("run.total_estimated", report.TotalEstimated).WithFloat("run.total_actual", report.TotalActual)
		tracing.EndSpan(r.span, nil)
		// release a pause issued during the final Running phase
		if c.gate.IsPaused() {
			c.gate.Resume()
			c.metrics.Gate(r.ctx, "resume")
		}
		eventContext := &event.Context{
			RunID:       r.id,
			EventType:   event.TypeRunComplete,
			TimeTakenMs: int(report.FinishedAt.Sub(report.StartedAt).Milliseconds()),
		}
		if err := c.events.Publish(r.ctx, eventContext, &envelope{run: r, report: report}); err != nil {
			c.logger.Warn("failed to publish run completion", zap.String("runID", r.id), zap.Error(err))
		}
		c.logger.Info("run completed",
			zap.String("runID", r.id),
			zap.Int("processes", report.ProcessCount),
			zap.Float64("totalEstimated", report.TotalEstimated),
			zap.Float64("totalActual", report.TotalActual),
		)
	})
}

// teardown cancels r, waits for its runners and marks it cancelled unless it already completed.
func (c *Controller) teardown(ctx context.Context, r *run) {
	r.finish(process.RunStateCancelled, func(report *process.RunReport) {
		c.saveReport(ctx, report)
		c.metrics.Run(ctx, process.RunStateCancelled)
		tracing.EndSpan(r.span, ErrRunCancelled)
		c.logger.Info("run cancelled", zap.String("runID", r.id), zap.Int("completed", r.tracker.Snapshot().Reported))
	})
	r.cancel()
	r.wg.Wait()
}

func (c *Controller) notifier(r *run) runner.Notifier {
	return func(ctx context.Context, change *runner.Change) {
		if r.cancelled.Load() {
			return
		}
		payload := &ProcessEvent{RunID: r.id, From: change.From, Snapshot: change.Snapshot}
		eventContext := &event.Context{RunID: r.id, ProcessID: change.Snapshot.ID, EventType: event.TypeProcess}
		if err := c.events.Publish(ctx, eventContext, &envelope{run: r, process: payload}); err != nil && ctx.Err() == nil {
			c.logger.Warn("failed to publish process event", zap.String("runID", r.id), zap.Int("id", change.Snapshot.ID), zap.Error(err))
		}
	}
}

// dispatch runs on the event listener goroutine, so observers see events in publication order.
func (c *Controller) dispatch(e *event.Event[any]) {
	env, ok := e.Data.(*envelope)
	if !ok || env.run.cancelled.Load() {
		return
	}
	c.observerMu.RLock()
	processObservers := c.processObservers
	completeObservers := c.completeObservers
	c.observerMu.RUnlock()
	switch {
	case env.process != nil:
		for _, observer := range processObservers {
			observer(*env.process)
		}
	case env.report != nil:
		for _, observer := range completeObservers {
			observer(*env.report)
		}
	}
}

func (c *Controller) saveReport(ctx context.Context, report *process.RunReport) {
	if c.reports == nil {
		return
	}
	if err := c.reports.Save(ctx, report); err != nil {
		c.logger.Warn("failed to save run report", zap.String("runID", report.ID), zap.String("state", report.State), zap.Error(err))
	}
}

func (c *Controller) current() *run {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.run
}

// Pause closes the gate while a run is active; otherwise it does nothing.
func (c *Controller) Pause() {
	r := c.current()
	if r == nil || r.isDone() || c.gate.IsPaused() {
		return
	}
	c.gate.Pause()
	c.metrics.Gate(r.ctx, "pause")
	c.logger.Info("run paused", zap.String("runID", r.id))
}

// Resume reopens the gate while a run is active; otherwise it does nothing.
func (c *Controller) Resume() {
	r := c.current()
	if r == nil || r.isDone() || !c.gate.IsPaused() {
		return
	}
	c.gate.Resume()
	c.metrics.Gate(r.ctx, "resume")
	c.logger.Info("run resumed", zap.String("runID", r.id))
}

// IsPaused reports whether the gate is closed.
func (c *Controller) IsPaused() bool {
	return c.gate.IsPaused()
}

// Active reports whether a run is in progress.
func (c *Controller) Active() bool {
	r := c.current()
	return r != nil && !r.isDone()
}

// RunID returns the current run id or empty string.
func (c *Controller) RunID() string {
	if r := c.current(); r != nil {
		return r.id
	}
	return ""
}

// Completed returns the number of processes of the current run that reported termination.
func (c *Controller) Completed() int {
	if r := c.current(); r != nil {
		return r.tracker.Snapshot().Reported
	}
	return 0
}

// Progress returns the lifecycle counters of the current run.
func (c *Controller) Progress() progress.Counters {
	if r := c.current(); r != nil {
		return r.tracker.Snapshot()
	}
	return progress.Counters{}
}

// Snapshot returns copies of the current records in priority order.
func (c *Controller) Snapshot() []process.Snapshot {
	if r := c.current(); r != nil {
		return process.Snapshots(r.records)
	}
	return nil
}

// Wait blocks until the current run ends. A torn-down run returns its
// cancelled report with ErrRunCancelled.
func (c *Controller) Wait(ctx context.Context) (*process.RunReport, error) {
	r := c.current()
	if r == nil {
		return nil, ErrNoRun
	}
	select {
	case <-r.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if r.report.State == process.RunStateCancelled {
		return r.report, fmt.Errorf("run %s: %w", r.id, ErrRunCancelled)
	}
	return r.report, nil
}

// Shutdown tears down the active run and stops event delivery.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	r := c.run
	c.mu.Unlock()
	if r != nil {
		stopped := make(chan struct{})
		go func() {
			c.teardown(ctx, r)
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if failed := c.events.Failed(); len(failed) > 0 {
		c.logger.Warn("observers failed on events", zap.Int("count", len(failed)))
	}
	return c.events.Close()
}
