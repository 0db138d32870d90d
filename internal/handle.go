package internal

import (
	"context"
	"sync"
	"sync/atomic"
)

// State of one in-flight scan: Running until the first terminal
// transition, then inert.
type State int32

const (
	StateRunning State = iota
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Handle represents one scan. It transitions to Completed or Cancelled
// exactly once; the losing transition is a no-op.
type Handle struct {
	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	err    error
}

func newHandle(cancel context.CancelFunc) *Handle {
	return &Handle{cancel: cancel, done: make(chan struct{})}
}

// Cancel requests cooperative cancellation: workers finish their
// current file, nothing new is started.
func (h *Handle) Cancel() { h.cancel() }

// Done is closed when the scan reaches a terminal state.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the scan is terminal.
func (h *Handle) Wait() { <-h.done }

func (h *Handle) State() State { return State(h.state.Load()) }

// Err reports the diagnostic for a cancelled scan, nil otherwise.
// Valid after Done.
func (h *Handle) Err() error { return h.err }

// finish performs the single terminal transition. notify runs inside
// the transition, before Done is closed, so a caller returning from
// Wait observes the terminal sink callback already delivered. Later
// calls are dropped.
func (h *Handle) finish(s State, err error, notify func()) {
	h.once.Do(func() {
		h.err = err
		h.state.Store(int32(s))
		if notify != nil {
			notify()
		}
		close(h.done)
	})
}
