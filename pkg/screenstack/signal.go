package screenstack

import (
	"context"

	"go.uber.org/atomic"
)

// Signal is a single-resolution completion handle handed to animation hooks.
// The first Resolve completes the transition; later calls are ignored, so a
// transition can never complete twice.
//
// Hooks MUST eventually call Resolve. There is no timeout: a hook that never
// resolves leaves the transition pending forever, although a waiting caller may
// give up through its context.
type Signal struct {
	done      chan struct{}
	fired     atomic.Bool
	onResolve func()
}

func newSignal(onResolve func()) *Signal {
	return &Signal{done: make(chan struct{}), onResolve: onResolve}
}

// Resolve completes the signal. It reports whether this call was the one that
// resolved it. Safe to call from any goroutine.
func (s *Signal) Resolve() bool {
	if !s.fired.CompareAndSwap(false, true) {
		return false
	}
	if s.onResolve != nil {
		s.onResolve()
	}
	close(s.done)
	return true
}

// Done is closed once the signal resolves and its completion work has run.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

func (s *Signal) Resolved() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the signal resolves or ctx is done.
func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
