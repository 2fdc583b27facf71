package reversaar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_EmitOrder(t *testing.T) {
	bus := NewBus()
	var got []string
	bus.Subscribe(func(e Event) { got = append(got, "a:"+e.Name) })
	bus.Subscribe(func(e Event) { got = append(got, "b:"+e.Name) })

	bus.Emit(Event{Name: EventCountChanged})
	assert.Equal(t, []string{"a:count:changed", "b:count:changed"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	unsubscribe := bus.Subscribe(func(Event) { calls++ })

	bus.Emit(Event{Name: EventSessionChanged})
	unsubscribe()
	unsubscribe()
	bus.Emit(Event{Name: EventSessionChanged})

	assert.Equal(t, 1, calls)
}

func TestBus_SubscribeFromHandler(t *testing.T) {
	bus := NewBus()
	inner := 0
	bus.Subscribe(func(Event) {
		bus.Subscribe(func(Event) { inner++ })
	})

	bus.Emit(Event{Name: EventExpanded})
	assert.Equal(t, 0, inner)
	bus.Emit(Event{Name: EventExpanded})
	assert.Equal(t, 1, inner)
}

func TestBus_NilEmit(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() { bus.Emit(Event{Name: EventExpanded}) })
}
