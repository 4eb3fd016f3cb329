// Package schedule provides the cancellable timers that drive the animated
// parts of the page (hero carousel, proof marquee, certificate loader) and
// the loop that serializes every UI state transition.
//
// Two schedulers share one interface: Virtual advances a simulated clock on
// demand and is what the tests use; Realtime runs on a clockwork.Clock.
// Both deliver callbacks through a Loop, so a timer callback never races a
// user event.
package schedule

import (
	"sync"
	"time"
)

// Task is a scheduled callback. Cancel is idempotent; once it returns the
// callback will not start again.
type Task interface {
	Cancel()
}

// Scheduler registers timed callbacks.
type Scheduler interface {
	// Every runs fn repeatedly, interval apart, until cancelled.
	Every(interval time.Duration, fn func()) Task

	// After runs fn once after delay unless cancelled first.
	After(delay time.Duration, fn func()) Task
}

// Loop serializes state transitions the way a browser event loop does.
// Everything that reads or writes UI state runs inside Run. Run is not
// reentrant: calling Run from inside a Run callback deadlocks.
type Loop struct {
	mu sync.Mutex
}

// NewLoop creates a loop.
func NewLoop() *Loop {
	return &Loop{}
}

// Run executes fn while holding the loop.
func (l *Loop) Run(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fn()
}

// noopTask is returned for requests that can never fire.
type noopTask struct{}

func (noopTask) Cancel() {}

// Noop returns a task that does nothing when cancelled.
func Noop() Task {
	return noopTask{}
}
