package schedule

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// Realtime schedules callbacks on a clockwork.Clock. Pass
// clockwork.NewRealClock() in production and a fake clock in tests.
type Realtime struct {
	clock clockwork.Clock
	loop  *Loop

	mu    sync.Mutex
	tasks map[*realtimeTask]struct{}
}

type realtimeTask struct {
	owner     *Realtime
	interval  time.Duration
	fn        func()
	cancelled atomic.Bool

	mu    sync.Mutex
	timer clockwork.Timer
}

// NewRealtime creates a scheduler on clock delivering through loop.
func NewRealtime(loop *Loop, clock clockwork.Clock) *Realtime {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	if loop == nil {
		loop = NewLoop()
	}

	return &Realtime{
		clock: clock,
		loop:  loop,
		tasks: make(map[*realtimeTask]struct{}),
	}
}

// Every implements Scheduler.
func (r *Realtime) Every(interval time.Duration, fn func()) Task {
	if interval <= 0 {
		panic("schedule: non-positive interval for Every")
	}

	return r.start(interval, interval, fn)
}

// After implements Scheduler.
func (r *Realtime) After(delay time.Duration, fn func()) Task {
	return r.start(delay, 0, fn)
}

func (r *Realtime) start(delay, interval time.Duration, fn func()) Task {
	t := &realtimeTask{owner: r, interval: interval, fn: fn}

	r.mu.Lock()
	r.tasks[t] = struct{}{}
	r.mu.Unlock()

	// Hold t.mu so an early fire cannot observe a nil timer.
	t.mu.Lock()
	t.timer = r.clock.AfterFunc(delay, t.fire)
	t.mu.Unlock()

	return t
}

func (t *realtimeTask) fire() {
	t.owner.loop.Run(func() {
		if !t.cancelled.Load() {
			t.fn()
		}
	})

	if t.cancelled.Load() {
		return
	}

	if t.interval == 0 {
		t.owner.forget(t)
		return
	}

	t.mu.Lock()
	if !t.cancelled.Load() {
		t.timer.Reset(t.interval)
	}
	t.mu.Unlock()
}

// Cancel implements Task.
func (t *realtimeTask) Cancel() {
	if t.cancelled.Swap(true) {
		return
	}

	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.mu.Unlock()

	t.owner.forget(t)
}

func (r *Realtime) forget(t *realtimeTask) {
	r.mu.Lock()
	delete(r.tasks, t)
	r.mu.Unlock()
}

// Pending returns the number of live tasks.
func (r *Realtime) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.tasks)
}

// Stop cancels every live task. Used on shutdown.
func (r *Realtime) Stop() {
	r.mu.Lock()
	tasks := make([]*realtimeTask, 0, len(r.tasks))
	for t := range r.tasks {
		tasks = append(tasks, t)
	}
	r.mu.Unlock()

	for _, t := range tasks {
		t.Cancel()
	}
}
