package schedule

import (
	"sync"
	"sync/atomic"
	"time"
)

// Virtual is a deterministic scheduler over a simulated clock. Nothing
// fires until Advance is called, and Advance fires due callbacks on the
// calling goroutine in due-time order (registration order breaks ties).
type Virtual struct {
	loop *Loop

	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks map[*virtualTask]struct{}
}

type virtualTask struct {
	owner     *Virtual
	due       time.Time
	seq       uint64
	interval  time.Duration
	fn        func()
	cancelled atomic.Bool
}

// NewVirtual creates a virtual scheduler starting at the Unix epoch.
func NewVirtual(loop *Loop) *Virtual {
	if loop == nil {
		loop = NewLoop()
	}

	return &Virtual{
		loop:  loop,
		now:   time.Unix(0, 0).UTC(),
		tasks: make(map[*virtualTask]struct{}),
	}
}

// Every implements Scheduler. It panics on a non-positive interval, like
// time.NewTicker.
func (v *Virtual) Every(interval time.Duration, fn func()) Task {
	if interval <= 0 {
		panic("schedule: non-positive interval for Every")
	}

	return v.add(interval, interval, fn)
}

// After implements Scheduler.
func (v *Virtual) After(delay time.Duration, fn func()) Task {
	return v.add(delay, 0, fn)
}

func (v *Virtual) add(delay, interval time.Duration, fn func()) Task {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.seq++
	t := &virtualTask{
		owner:    v,
		due:      v.now.Add(delay),
		seq:      v.seq,
		interval: interval,
		fn:       fn,
	}
	v.tasks[t] = struct{}{}

	return t
}

// Cancel implements Task.
func (t *virtualTask) Cancel() {
	if t.cancelled.Swap(true) {
		return
	}

	t.owner.mu.Lock()
	delete(t.owner.tasks, t)
	t.owner.mu.Unlock()
}

// Now returns the simulated time.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.now
}

// Pending returns the number of live tasks.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return len(v.tasks)
}

// Advance moves the clock forward by d, firing every callback that comes
// due along the way. A repeating task due several times within d fires
// once per period. Must not be called from inside a Loop callback.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	for {
		t := v.nextDue(target)
		if t == nil {
			break
		}

		v.loop.Run(func() {
			if !t.cancelled.Load() {
				t.fn()
			}
		})
	}

	v.mu.Lock()
	v.now = target
	v.mu.Unlock()
}

// nextDue pops the earliest task due at or before target, moves the clock
// to its due time and reschedules it when it repeats.
func (v *Virtual) nextDue(target time.Time) *virtualTask {
	v.mu.Lock()
	defer v.mu.Unlock()

	var next *virtualTask
	for t := range v.tasks {
		if t.due.After(target) {
			continue
		}
		if next == nil || t.due.Before(next.due) || (t.due.Equal(next.due) && t.seq < next.seq) {
			next = t
		}
	}

	if next == nil {
		return nil
	}

	v.now = next.due
	if next.interval > 0 {
		next.due = next.due.Add(next.interval)
		v.seq++
		next.seq = v.seq
	} else {
		delete(v.tasks, next)
	}

	return next
}
