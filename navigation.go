package reversaar

import (
	"strings"
	"sync"
)

// Navigation holds the externally owned "current view" selector (the URL
// fragment in a browser, the subcommand in the CLI). The core only reads it.
type Navigation struct {
	bus *Bus

	mu   sync.RWMutex
	view string
}

// Set is called by the shell when the selector changes. A leading '#' is
// dropped.
func (n *Navigation) Set(selector string) {
	view := strings.TrimPrefix(selector, "#")
	n.mu.Lock()
	changed := view != n.view
	n.view = view
	n.mu.Unlock()
	if changed {
		n.bus.Emit(Event{Name: EventNavigationChanged, View: view})
	}
}

// Current returns the selected view.
func (n *Navigation) Current() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.view
}

// Shows reports whether the listing or page named view is visible.
func (n *Navigation) Shows(view string) bool {
	return n.Current() == view
}
