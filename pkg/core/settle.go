package core

import (
	"context"
	"sync"
)

// Settle is the render-complete signal of one update pass.
//
// Callers on the loop goroutine use Then; other goroutines may block in Wait.
// Waiting on the loop goroutine for a pending settle deadlocks, since the
// pass can only run once control returns to the loop.
type Settle struct {
	done      chan struct{}
	mu        sync.Mutex
	settled   bool
	err       error
	callbacks []func(error)
}

func newSettle() *Settle {
	return &Settle{done: make(chan struct{})}
}

func resolvedSettle() *Settle {
	s := newSettle()
	s.resolve(nil)
	return s
}

func (s *Settle) resolve(err error) {
	s.mu.Lock()
	if s.settled {
		s.mu.Unlock()
		return
	}
	s.settled = true
	s.err = err
	callbacks := s.callbacks
	s.callbacks = nil
	close(s.done)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(err)
	}
}

// Done returns a channel closed when the pass has finished.
func (s *Settle) Done() <-chan struct{} {
	return s.done
}

// Settled reports whether the pass has finished.
func (s *Settle) Settled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settled
}

// Err returns the pass's error. It is nil while the pass is pending and
// after a successful pass.
func (s *Settle) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Then registers fn to run with the pass's error once it has finished. If
// the pass already finished, fn runs immediately.
func (s *Settle) Then(fn func(error)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	if !s.settled {
		s.callbacks = append(s.callbacks, fn)
		s.mu.Unlock()
		return
	}
	err := s.err
	s.mu.Unlock()
	fn(err)
}

// Wait blocks until the pass finishes or ctx is done.
func (s *Settle) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
