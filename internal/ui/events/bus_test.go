package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_AddDispatchRemove(t *testing.T) {
	bus := NewBus[KeyEvent]()

	var got []string
	removeA := bus.Add(func(e KeyEvent) { got = append(got, "a:"+e.Key) })
	bus.Add(func(e KeyEvent) { got = append(got, "b:"+e.Key) })

	bus.Dispatch(KeyEvent{Key: KeyEscape})
	assert.Equal(t, []string{"a:Escape", "b:Escape"}, got)
	assert.Equal(t, 2, bus.Len())

	removeA()
	removeA()
	assert.Equal(t, 1, bus.Len())

	got = nil
	bus.Dispatch(KeyEvent{Key: "Enter"})
	assert.Equal(t, []string{"b:Enter"}, got)
}

func TestBus_ListenerRemovingItselfDuringDispatch(t *testing.T) {
	bus := NewBus[ScrollEvent]()

	var calls int
	var remove func()
	remove = bus.Add(func(ScrollEvent) {
		calls++
		remove()
	})
	bus.Add(func(ScrollEvent) { calls++ })

	bus.Dispatch(ScrollEvent{Y: 10})
	bus.Dispatch(ScrollEvent{Y: 20})

	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, bus.Len())
}

func TestWindow_Listeners(t *testing.T) {
	w := NewWindow()
	assert.Equal(t, 0, w.Listeners())

	r1 := w.Keydown.Add(func(KeyEvent) {})
	r2 := w.Scroll.Add(func(ScrollEvent) {})
	assert.Equal(t, 2, w.Listeners())

	r1()
	r2()
	assert.Equal(t, 0, w.Listeners())
}
