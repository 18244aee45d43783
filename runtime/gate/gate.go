// Package gate provides the process-wide pause gate consulted by every
// runner at phase boundaries.
package gate

import (
	"context"
	"sync"
)

// Gate is a reusable open/closed barrier. While open, Wait returns
// immediately; while paused, every waiter blocks until Resume releases them
// all at once.
type Gate struct {
	mu     sync.Mutex
	open   chan struct{}
	paused bool
}

// New returns an open gate.
func New() *Gate {
	ch := make(chan struct{})
	close(ch)
	return &Gate{open: ch}
}

// Pause closes the gate. Calling Pause on a paused gate is a no-op.
func (g *Gate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused {
		return
	}
	g.paused = true
	g.open = make(chan struct{})
}

// Resume opens the gate and releases all waiters. Calling Resume on an open
// gate is a no-op.
func (g *Gate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.paused {
		return
	}
	g.paused = false
	close(g.open)
}

// IsPaused returns true while the gate is closed.
func (g *Gate) IsPaused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// Wait blocks until the gate is open or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	g.mu.Lock()
	open := g.open
	g.mu.Unlock()
	select {
	case <-open:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
