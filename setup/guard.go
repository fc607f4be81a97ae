package setup

import (
	"context"
	"errors"
	"sync"
)

var ErrMatchInProgress = errors.New("another match operation is in progress")

// Guard admits one session-mutating operation at a time and lets a kill request
// cancel whichever one is running.
type Guard struct {
	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// Acquire returns a context for the operation and a release func, or
// ErrMatchInProgress when another operation holds the guard.
func (g *Guard) Acquire(parent context.Context) (context.Context, func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		return nil, nil, ErrMatchInProgress
	}

	ctx, cancel := context.WithCancel(parent)
	g.running = true
	g.cancel = cancel

	var once sync.Once
	release := func() {
		once.Do(func() {
			cancel()
			g.mu.Lock()
			defer g.mu.Unlock()
			g.running = false
			g.cancel = nil
		})
	}
	return ctx, release, nil
}

// CancelRunning cancels the current operation, if any, and reports whether there was one.
func (g *Guard) CancelRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.running {
		return false
	}
	g.cancel()
	return true
}
