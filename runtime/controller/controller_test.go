package controller

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/procsim/runtime/process"
	"github.com/viant/procsim/runtime/runner"
	"github.com/viant/procsim/service/dao"
	"github.com/viant/procsim/service/dao/criteria"
	"github.com/viant/procsim/service/dao/report/memory"
)

type observed struct {
	mu        sync.Mutex
	events    []ProcessEvent
	completed []process.RunReport
	order     []string
}

func (o *observed) onProcess(e ProcessEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
	o.order = append(o.order, "process")
}

func (o *observed) onComplete(r process.RunReport) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completed = append(o.completed, r)
	o.order = append(o.order, "complete")
}

func (o *observed) snapshot() ([]ProcessEvent, []process.RunReport, []string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]ProcessEvent(nil), o.events...), append([]process.RunReport(nil), o.completed...), append([]string(nil), o.order...)
}

func newController(t *testing.T, options ...Option) (*Controller, *observed) {
	timing := runner.DefaultTiming()
	timing.Unit = time.Millisecond
	options = append([]Option{WithTiming(timing), WithRand(rand.New(rand.NewPCG(3, 5)))}, options...)
	ctrl := New(options...)
	obs := &observed{}
	ctrl.OnProcessEvent(obs.onProcess)
	ctrl.OnRunComplete(obs.onComplete)
	t.Cleanup(func() {
		_ = ctrl.Shutdown(context.Background())
	})
	return ctrl, obs
}

func waitReport(t *testing.T, ctrl *Controller) *process.RunReport {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	report, err := ctrl.Wait(ctx)
	require.NoError(t, err)
	require.NotNil(t, report)
	return report
}

func waitCompleted(t *testing.T, obs *observed, count int) {
	require.Eventually(t, func() bool {
		_, completed, _ := obs.snapshot()
		return len(completed) >= count
	}, 10*time.Second, 5*time.Millisecond)
}

func TestController_StartRun_InvalidCount(t *testing.T) {
	ctrl, _ := newController(t)
	for _, n := range []int{0, -1} {
		err := ctrl.StartRun(context.Background(), n)
		assert.True(t, errors.Is(err, process.ErrInvalidConfiguration), "n=%d", n)
	}
	assert.False(t, ctrl.Active())
	assert.Equal(t, "", ctrl.RunID())
	_, err := ctrl.Wait(context.Background())
	assert.True(t, errors.Is(err, ErrNoRun))
}

func TestController_StartRun_InvalidRanges(t *testing.T) {
	cfg := process.DefaultConfig()
	cfg.Cycles = process.IntRange{Min: 5, Max: 1}
	ctrl, _ := newController(t, WithProcessConfig(cfg))
	err := ctrl.StartRun(context.Background(), 2)
	assert.True(t, errors.Is(err, process.ErrInvalidConfiguration))
	assert.False(t, ctrl.Active())
}

func TestController_PauseResumeWithoutRun(t *testing.T) {
	ctrl, obs := newController(t)
	ctrl.Pause()
	assert.False(t, ctrl.IsPaused())
	ctrl.Resume()
	assert.False(t, ctrl.IsPaused())
	events, completed, _ := obs.snapshot()
	assert.Empty(t, events)
	assert.Empty(t, completed)
}

func TestController_SingleProcess(t *testing.T) {
	ctrl, obs := newController(t)
	require.NoError(t, ctrl.StartRun(context.Background(), 1))
	runID := ctrl.RunID()
	assert.NotEmpty(t, runID)

	report := waitReport(t, ctrl)
	waitCompleted(t, obs, 1)
	time.Sleep(20 * time.Millisecond)

	_, completed, _ := obs.snapshot()
	require.Len(t, completed, 1)
	assert.Equal(t, runID, completed[0].ID)
	require.Len(t, completed[0].Processes, 1)
	snapshot := completed[0].Processes[0]
	assert.Equal(t, process.StateTerminated, snapshot.State)
	assert.Equal(t, 1, snapshot.Priority)
	assert.GreaterOrEqual(t, snapshot.CyclesCompleted, 20)
	assert.LessOrEqual(t, snapshot.CyclesCompleted, 30)
	assert.Equal(t, snapshot.NumCycles, snapshot.CyclesCompleted)

	assert.Equal(t, process.RunStateCompleted, report.State)
	assert.Equal(t, 1, report.Completed)
	assert.Equal(t, 1, ctrl.Completed())
	assert.False(t, ctrl.Active())
}

func TestController_RunOrdering(t *testing.T) {
	reports := memory.New()
	ctrl, obs := newController(t, WithReportDAO(reports))
	require.NoError(t, ctrl.StartRun(context.Background(), 5))
	report := waitReport(t, ctrl)
	waitCompleted(t, obs, 1)

	require.Len(t, report.Processes, 5)
	ids := map[int]bool{}
	for i, snapshot := range report.Processes {
		assert.Equal(t, i+1, snapshot.Priority)
		assert.Equal(t, process.StateTerminated, snapshot.State)
		ids[snapshot.ID] = true
	}
	assert.Len(t, ids, 5)
	assert.Equal(t, 5, ctrl.Completed())
	assert.Equal(t, 5, ctrl.Progress().Terminated)

	events, completed, order := obs.snapshot()
	require.Len(t, completed, 1)
	assert.Equal(t, "complete", order[len(order)-1])
	perProcess := map[int][]ProcessEvent{}
	for _, e := range events {
		assert.Equal(t, report.ID, e.RunID)
		perProcess[e.ID] = append(perProcess[e.ID], e)
	}
	require.Len(t, perProcess, 5)
	for id, list := range perProcess {
		assert.Equal(t, process.StateNew, list[0].State, "process %d", id)
		assert.Equal(t, process.StateTerminated, list[len(list)-1].State, "process %d", id)
		for i := 1; i < len(list); i++ {
			assert.True(t, list[i-1].State.CanTransition(list[i].State), "process %d: %s -> %s", id, list[i-1].State, list[i].State)
			assert.GreaterOrEqual(t, list[i].ActualTime, list[i-1].ActualTime)
		}
	}

	stored, err := reports.Load(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, process.RunStateCompleted, stored.State)
	assert.InDelta(t, report.TotalActual, stored.TotalActual, 1e-9)
}

func TestController_Pause(t *testing.T) {
	ctrl, obs := newController(t)
	require.NoError(t, ctrl.StartRun(context.Background(), 3))
	time.Sleep(5 * time.Millisecond)
	ctrl.Pause()
	assert.True(t, ctrl.IsPaused())

	time.Sleep(30 * time.Millisecond)
	first := ctrl.Snapshot()
	time.Sleep(30 * time.Millisecond)
	second := ctrl.Snapshot()
	require.Len(t, second, 3)
	for i := range first {
		assert.Equal(t, first[i].State, second[i].State)
		assert.Equal(t, first[i].CyclesCompleted, second[i].CyclesCompleted)
		assert.NotEqual(t, process.StateBlocked, second[i].State)
	}
	assert.True(t, ctrl.Active())

	ctrl.Resume()
	assert.False(t, ctrl.IsPaused())
	report := waitReport(t, ctrl)
	for i, snapshot := range report.Processes {
		assert.GreaterOrEqual(t, snapshot.CyclesCompleted, first[i].CyclesCompleted)
		assert.GreaterOrEqual(t, snapshot.ActualTime, first[i].ActualTime)
	}
	waitCompleted(t, obs, 1)
}

func TestController_Restart(t *testing.T) {
	reports := memory.New()
	ctrl, obs := newController(t, WithReportDAO(reports))
	require.NoError(t, ctrl.StartRun(context.Background(), 3))
	firstID := ctrl.RunID()
	time.Sleep(5 * time.Millisecond)
	ctrl.Pause()

	require.NoError(t, ctrl.StartRun(context.Background(), 2))
	secondID := ctrl.RunID()
	assert.NotEqual(t, firstID, secondID)
	assert.False(t, ctrl.IsPaused())

	report := waitReport(t, ctrl)
	assert.Equal(t, secondID, report.ID)
	assert.Len(t, report.Processes, 2)
	waitCompleted(t, obs, 1)
	time.Sleep(20 * time.Millisecond)

	_, completed, _ := obs.snapshot()
	require.Len(t, completed, 1)
	assert.Equal(t, secondID, completed[0].ID)

	cancelled, err := reports.List(context.Background(), dao.NewParameter(criteria.StateParameter, process.RunStateCancelled))
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, firstID, cancelled[0].ID)
	assert.Less(t, cancelled[0].Completed, 3)
}

func TestController_Shutdown(t *testing.T) {
	ctrl, _ := newController(t)
	require.NoError(t, ctrl.StartRun(context.Background(), 2))
	ctrl.Pause()
	require.NoError(t, ctrl.Shutdown(context.Background()))

	_, err := ctrl.Wait(context.Background())
	assert.True(t, errors.Is(err, ErrRunCancelled))
	assert.True(t, errors.Is(ctrl.StartRun(context.Background(), 1), ErrClosed))
	assert.NoError(t, ctrl.Shutdown(context.Background()))
}

func TestController_ObserverPanic(t *testing.T) {
	ctrl, obs := newController(t)
	var once sync.Once
	ctrl.OnProcessEvent(func(e ProcessEvent) {
		once.Do(func() { panic("observer failure") })
	})
	require.NoError(t, ctrl.StartRun(context.Background(), 2))
	waitReport(t, ctrl)
	waitCompleted(t, obs, 1)
	assert.Len(t, ctrl.events.Failed(), 1)
}

func TestController_PauseDuringFinalCycle(t *testing.T) {
	cfg := process.DefaultConfig()
	cfg.Cycles = process.IntRange{Min: 1, Max: 1}
	cfg.EstimatedTime = process.FloatRange{Min: 60, Max: 60}
	ctrl, obs := newController(t, WithProcessConfig(cfg))
	require.NoError(t, ctrl.StartRun(context.Background(), 1))

	require.Eventually(t, func() bool {
		snapshot := ctrl.Snapshot()
		return len(snapshot) == 1 && snapshot[0].State == process.StateRunning
	}, 5*time.Second, time.Millisecond)
	ctrl.Pause()
	assert.True(t, ctrl.IsPaused())

	report := waitReport(t, ctrl)
	assert.Equal(t, process.RunStateCompleted, report.State)
	assert.False(t, ctrl.Active())
	assert.False(t, ctrl.IsPaused())
	waitCompleted(t, obs, 1)
}
