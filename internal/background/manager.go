package background

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// DefaultMaxWorkers is used when NewManager receives a non-positive limit.
const DefaultMaxWorkers = 10

// Manager runs detached tasks with a concurrency limit and lets shutdown wait for them.
// Failed tasks are counted; only the most recent error is kept for Wait.
type Manager struct {
	log     *slog.Logger
	mu      sync.Mutex
	failed  int
	lastErr error
	wg      sync.WaitGroup
	sema    chan struct{}
}

// NewManager creates a Manager running at most maxWorkers tasks at once.
func NewManager(maxWorkers int, log *slog.Logger) *Manager {
	if maxWorkers < 1 {
		maxWorkers = DefaultMaxWorkers
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		log:  log,
		sema: make(chan struct{}, maxWorkers),
	}
}

// Go schedules f and returns immediately. The task waits in its own goroutine for a free
// slot and is dropped if ctx ends first.
func (m *Manager) Go(ctx context.Context, f func(ctx context.Context) error) {
	if err := ctx.Err(); err != nil {
		m.log.WarnContext(ctx, "background task canceled before start", "because", err)
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		select {
		case m.sema <- struct{}{}:
		case <-ctx.Done():
			m.log.WarnContext(ctx, "background task canceled before start", "because", ctx.Err())
			return
		}
		defer func() {
			<-m.sema
			if rvr := recover(); rvr != nil {
				m.log.ErrorContext(ctx, "panic in background task", "panic", rvr, "stack", string(debug.Stack()))
			}
		}()

		if err := f(ctx); err != nil {
			m.mu.Lock()
			m.failed++
			m.lastErr = err
			m.mu.Unlock()
		}
	}()
}

// Wait blocks until every scheduled task finished. It reports how many failed and the
// last failure.
func (m *Manager) Wait() error {
	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed == 0 {
		return nil
	}
	return fmt.Errorf("%d background task(s) failed, last: %w", m.failed, m.lastErr)
}
