package sched

import (
	"context"
	"sync"
	"time"
)

// DefaultFrameInterval is the frame period used by Run.
const DefaultFrameInterval = 16 * time.Millisecond

// FrameScheduler schedules a callback for the next animation frame.
type FrameScheduler interface {
	RequestFrame(callback func(now time.Time))
	Now() time.Time
}

// Loop is a single-threaded event loop. Callbacks passed to Dispatch and
// RequestFrame may be queued from any goroutine, but every callback and
// microtask runs on the goroutine calling Step, Frame or Run.
type Loop struct {
	micro Queue
	clock Clock

	mu       sync.Mutex
	dispatch []func()
	frames   []func(time.Time)
	wake     chan struct{}
}

var (
	_ Scheduler      = (*Loop)(nil)
	_ FrameScheduler = (*Loop)(nil)
)

// NewLoop creates a loop. A nil clock uses SystemClock.
func NewLoop(clock Clock) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	l := &Loop{
		clock: clock,
		wake:  make(chan struct{}, 1),
	}
	l.micro.OnPost = l.signal
	return l
}

// Post queues a microtask. Microtasks run after the current macrotask,
// before the next one.
func (l *Loop) Post(task func()) {
	l.micro.Post(task)
}

// Dispatch queues a macrotask. It is safe to call from any goroutine.
func (l *Loop) Dispatch(callback func()) {
	if callback == nil {
		return
	}
	l.mu.Lock()
	l.dispatch = append(l.dispatch, callback)
	l.mu.Unlock()
	l.signal()
}

// RequestFrame queues a callback for the next frame.
func (l *Loop) RequestFrame(callback func(now time.Time)) {
	if callback == nil {
		return
	}
	l.mu.Lock()
	l.frames = append(l.frames, callback)
	l.mu.Unlock()
	l.signal()
}

// Now returns the loop clock's current time.
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending reports whether any macrotask or microtask is queued.
// Frame callbacks are not counted; see FramePending.
func (l *Loop) Pending() bool {
	l.mu.Lock()
	n := len(l.dispatch)
	l.mu.Unlock()
	return n > 0 || l.micro.Len() > 0
}

// FramePending reports whether frame callbacks are waiting.
func (l *Loop) FramePending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames) > 0
}

// Step drains outstanding microtasks, then runs every macrotask queued at
// the time of the call, draining microtasks after each one. It reports
// whether any work ran.
func (l *Loop) Step() bool {
	ran := l.micro.Drain() > 0

	l.mu.Lock()
	callbacks := append([]func(){}, l.dispatch...)
	l.dispatch = nil
	l.mu.Unlock()

	for _, fn := range callbacks {
		fn()
		l.micro.Drain()
		ran = true
	}
	return ran
}

// Frame runs the callbacks requested before this call with the clock's
// current time. Callbacks requested during the frame wait for the next one.
func (l *Loop) Frame() bool {
	l.mu.Lock()
	callbacks := l.frames
	l.frames = nil
	l.mu.Unlock()

	now := l.clock.Now()
	for _, fn := range callbacks {
		fn(now)
		l.micro.Drain()
	}
	return len(callbacks) > 0
}

// Run processes work until ctx is done, running frames every interval
// while frame callbacks are pending. A non-positive interval uses
// DefaultFrameInterval.
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		l.Step()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		case <-ticker.C:
			if l.FramePending() {
				l.Frame()
			}
		}
	}
}
