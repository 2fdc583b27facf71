package reversaar

import (
	"fmt"
	"log/slog"
	"sync"
)

// Listing shows the items of one kind and keeps at most one entry expanded.
//
// The entry count is read through from the SessionStore on every call.
// Expanding builds a fresh ItemView and discards the previous one, so the
// number of live views per listing never exceeds one.
type Listing struct {
	kind    Kind
	title   string
	api     API
	session *SessionStore
	bus     *Bus
	logger  *slog.Logger

	mu          sync.Mutex
	expanded    *ItemView
	unsubscribe func()
}

// watch collapses the expanded entry once the session no longer has it,
// e.g. after a refresh lowered the count or a logout.
func (l *Listing) watch() {
	l.unsubscribe = l.bus.Subscribe(func(e Event) {
		if e.Name != EventSessionChanged {
			return
		}
		if i, ok := l.ExpandedIndex(); ok && i >= l.Count() {
			l.logger.Debug("collapsing entry past count", "index", i, "count", l.Count())
			l.Collapse()
		}
	})
}

// Close collapses the listing and stops it following session changes.
func (l *Listing) Close() {
	l.Collapse()
	if l.unsubscribe != nil {
		l.unsubscribe()
	}
}

func (l *Listing) Kind() Kind     { return l.kind }
func (l *Listing) Title() string  { return l.title }
func (l *Listing) Count() int     { return l.session.Count(l.kind) }
func (l *Listing) LoggedIn() bool { return l.session.LoggedIn() }

// Entries returns the valid indices 0..Count()-1.
func (l *Listing) Entries() []int {
	n := l.Count()
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Expanded returns the live view, or nil.
func (l *Listing) Expanded() *ItemView {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.expanded
}

// ExpandedIndex returns the index of the expanded entry.
func (l *Listing) ExpandedIndex() (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.expanded == nil {
		return 0, false
	}
	return l.expanded.index, true
}

// Expand replaces the expanded entry with a fresh, Unloaded view of index.
// The previous view is discarded first. The caller triggers Load.
func (l *Listing) Expand(index int) (*ItemView, error) {
	if n := l.Count(); index < 0 || index >= n {
		return nil, fmt.Errorf("%w: %s %d (count %d)", ErrIndexOutOfRange, l.kind, index, n)
	}

	l.mu.Lock()
	if l.expanded != nil {
		l.expanded.discard()
	}
	v := newItemView(l.kind, index, l.api, l.bus, l.logger)
	l.expanded = v
	l.mu.Unlock()

	l.bus.Emit(Event{Name: EventExpanded, Kind: l.kind, Index: index})
	return v, nil
}

// Collapse discards the expanded view, if any.
func (l *Listing) Collapse() {
	l.mu.Lock()
	v := l.expanded
	l.expanded = nil
	if v != nil {
		v.discard()
	}
	l.mu.Unlock()

	if v != nil {
		l.bus.Emit(Event{Name: EventCollapsed, Kind: l.kind, Index: v.index})
	}
}

// Toggle collapses index if it is expanded, otherwise expands it. The
// returned view is nil after a collapse.
func (l *Listing) Toggle(index int) (*ItemView, error) {
	if i, ok := l.ExpandedIndex(); ok && i == index {
		l.Collapse()
		return nil, nil
	}
	return l.Expand(index)
}

// NewForm returns a submission form for this listing's kind. A successful
// send expands the new entry here.
func (l *Listing) NewForm() *Form {
	f := newForm(l.kind, l.api, l.session, l.bus, l.logger)
	f.onSent = func(id int) {
		if _, err := l.Expand(id); err != nil {
			l.logger.Warn("expand after send", "kind", l.kind.String(), "id", id, "error", err)
		}
	}
	return f
}
