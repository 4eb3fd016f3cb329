// Package events models the window-level listeners (keydown, scroll) that
// components attach while mounted. Every Add hands back its own remove func
// so setup and teardown stay paired.
package events

import "sync"

// Bus fans an event out to its listeners.
type Bus[T any] struct {
	mu        sync.Mutex
	next      uint64
	listeners map[uint64]func(T)
	order     []uint64
}

// NewBus creates an empty bus.
func NewBus[T any]() *Bus[T] {
	return &Bus[T]{listeners: make(map[uint64]func(T))}
}

// Add registers fn and returns the func that removes it. Removing twice is
// harmless.
func (b *Bus[T]) Add(fn func(T)) (remove func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	id := b.next
	b.listeners[id] = fn
	b.order = append(b.order, id)

	var once sync.Once

	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.listeners, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Dispatch delivers ev to the listeners registered when Dispatch was
// called, in registration order. Listeners may add or remove listeners.
func (b *Bus[T]) Dispatch(ev T) {
	b.mu.Lock()
	snapshot := make([]func(T), 0, len(b.order))
	for _, id := range b.order {
		snapshot = append(snapshot, b.listeners[id])
	}
	b.mu.Unlock()

	for _, fn := range snapshot {
		fn(ev)
	}
}

// Len returns the number of registered listeners.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.listeners)
}

// KeyEvent is a keydown on the window.
type KeyEvent struct {
	Key string
}

// KeyEscape is the key name browsers report for the escape key.
const KeyEscape = "Escape"

// ScrollEvent reports the window's vertical scroll position in pixels.
type ScrollEvent struct {
	Y float64
}

// Window groups the global listener buses of one page instance.
type Window struct {
	Keydown *Bus[KeyEvent]
	Scroll  *Bus[ScrollEvent]
}

// NewWindow creates a window with empty buses.
func NewWindow() *Window {
	return &Window{
		Keydown: NewBus[KeyEvent](),
		Scroll:  NewBus[ScrollEvent](),
	}
}

// Listeners returns the total number of attached listeners.
func (w *Window) Listeners() int {
	return w.Keydown.Len() + w.Scroll.Len()
}
