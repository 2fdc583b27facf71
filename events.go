package reversaar

import (
	"sort"
	"sync"
)

// Event names emitted on the application bus.
const (
	EventSessionChanged    = "session:changed"
	EventCountChanged      = "count:changed"
	EventViewLoading       = "view:loading"
	EventViewLoaded        = "view:loaded"
	EventViewFailed        = "view:failed"
	EventExpanded          = "listing:expanded"
	EventCollapsed         = "listing:collapsed"
	EventDraftChanged      = "draft:changed"
	EventNavigationChanged = "navigation:changed"
)

// Event is a change notification. Kind and Index are set for events that
// concern one listing entry; Count carries the new count for
// EventCountChanged; View carries the selector for EventNavigationChanged.
type Event struct {
	Name  string
	Kind  Kind
	Index int
	Count int
	View  string
}

// Bus delivers change notifications to subscribers.
//
// Emit calls subscribers synchronously, in subscription order, on the
// caller's goroutine. Components never hold their own locks while emitting.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(Event)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Emit sends ev to every subscriber.
func (b *Bus) Emit(ev Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.subs[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
