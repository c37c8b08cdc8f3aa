// Package debounce delays a callback until its producer goes quiet.
package debounce

import (
	"sync"
	"time"
)

// Scheduler runs fn with the most recent triggered value once Trigger has
// not been called for the configured delay.
//
// A Scheduler owns at most one timer at any moment. A timer that fires after
// it has been superseded or cancelled does nothing.
type Scheduler[T any] struct {
	mu      sync.Mutex
	fn      func(T)
	delay   time.Duration
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// New creates a scheduler for fn
func New[T any](fn func(T), delay time.Duration) *Scheduler[T] {
	return &Scheduler[T]{fn: fn, delay: delay}
}

// Schedule adapts a no-argument callback and returns its trigger and cancel functions
func Schedule(fn func(), delay time.Duration) (trigger func(), cancel func()) {
	s := New(func(struct{}) { fn() }, delay)
	return func() { s.Trigger(struct{}{}) }, func() { s.CancelPending() }
}

// Trigger cancels any pending invocation and schedules fn(v) after the delay
func (s *Scheduler[T]) Trigger(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen, v) })
}

// CancelPending drops the pending invocation, if any, and reports whether one existed
func (s *Scheduler[T]) CancelPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked()
}

// Pending reports whether an invocation is scheduled
func (s *Scheduler[T]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Delay returns the quiet window
func (s *Scheduler[T]) Delay() time.Duration {
	return s.delay
}

// Stop cancels the pending invocation and ignores all later triggers
func (s *Scheduler[T]) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.stopped = true
}

func (s *Scheduler[T]) cancelLocked() bool {
	if s.timer == nil {
		return false
	}
	s.timer.Stop()
	s.timer = nil
	// invalidate a timer whose callback is already running
	s.gen++
	return true
}

func (s *Scheduler[T]) fire(gen uint64, v T) {
	s.mu.Lock()
	if gen != s.gen || s.stopped {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	s.fn(v)
}
