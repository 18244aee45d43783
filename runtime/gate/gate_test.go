package gate

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_OpenByDefault(t *testing.T) {
	g := New()
	assert.False(t, g.IsPaused())
	assert.NoError(t, g.Wait(context.Background()))
}

func TestGate_Idempotent(t *testing.T) {
	g := New()
	g.Resume()
	assert.False(t, g.IsPaused())
	g.Pause()
	g.Pause()
	assert.True(t, g.IsPaused())
	g.Resume()
	g.Resume()
	assert.False(t, g.IsPaused())
	assert.NoError(t, g.Wait(context.Background()))
}

func TestGate_ReleasesAllWaiters(t *testing.T) {
	g := New()
	g.Pause()

	const waiters = 8
	var released atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Wait(context.Background()); err == nil {
				released.Add(1)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 0, released.Load())

	g.Resume()
	wg.Wait()
	assert.EqualValues(t, waiters, released.Load())
}

func TestGate_WaitCancelled(t *testing.T) {
	g := New()
	g.Pause()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := g.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, g.IsPaused())
}

func TestGate_PauseResumeCycles(t *testing.T) {
	g := New()
	for i := 0; i < 3; i++ {
		g.Pause()
		done := make(chan struct{})
		go func() {
			_ = g.Wait(context.Background())
			close(done)
		}()
		select {
		case <-done:
			t.Fatalf("cycle %d: waiter passed a paused gate", i)
		case <-time.After(10 * time.Millisecond):
		}
		g.Resume()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("cycle %d: waiter not released", i)
		}
	}
}
