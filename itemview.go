package reversaar

import (
	"context"
	"log/slog"
	"sync"
)

// ViewState is the lifecycle position of an ItemView.
type ViewState uint8

const (
	Unloaded ViewState = iota
	Loading
	Loaded
	Failed
)

func (s ViewState) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// ItemView is a lazily loaded wrapper around one stored item.
//
// A view moves Unloaded → Loading → Loaded|Failed at most once. It is never
// re-armed: a Listing discards it on collapse and builds a new one on the
// next expansion. A result that arrives after the view was discarded is
// dropped.
type ItemView struct {
	kind   Kind
	index  int
	api    API
	bus    *Bus
	logger *slog.Logger

	mu        sync.Mutex
	state     ViewState
	content   Content
	err       error
	discarded bool
	cancel    context.CancelFunc
}

func newItemView(k Kind, index int, api API, bus *Bus, logger *slog.Logger) *ItemView {
	return &ItemView{kind: k, index: index, api: api, bus: bus, logger: logger}
}

func (v *ItemView) Kind() Kind { return v.kind }
func (v *ItemView) Index() int { return v.index }

// URL is where the item can be streamed from.
func (v *ItemView) URL() string {
	return v.api.ItemURL(v.kind, v.index)
}

func (v *ItemView) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Initialized reports whether content is available.
func (v *ItemView) Initialized() bool {
	return v.State() == Loaded
}

// Content returns the decoded item once Loaded. Audio content is empty.
func (v *ItemView) Content() (Content, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.content, v.state == Loaded
}

// Err returns the failure of a Failed view.
func (v *ItemView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *ItemView) Discarded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.discarded
}

// Load fetches and decodes the item. It only acts on an Unloaded view;
// calling it in any other state is a no-op returning the stored error (if
// any). A decode failure is treated like a fetch failure.
//
// Audio is not fetched: the view becomes Loaded at once with empty content
// and players stream the item from URL.
//
// If the view is discarded while the fetch is in flight, the result is
// dropped and ErrDiscarded is returned.
func (v *ItemView) Load(ctx context.Context) error {
	v.mu.Lock()
	if v.discarded {
		v.mu.Unlock()
		return ErrDiscarded
	}
	if v.state != Unloaded {
		err := v.err
		v.mu.Unlock()
		return err
	}
	if v.kind == KindAudio {
		v.state = Loaded
		v.content = Audio(nil)
		v.mu.Unlock()
		v.bus.Emit(Event{Name: EventViewLoaded, Kind: v.kind, Index: v.index})
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	v.state = Loading
	v.cancel = cancel
	v.mu.Unlock()

	v.bus.Emit(Event{Name: EventViewLoading, Kind: v.kind, Index: v.index})

	content, err := v.fetch(ctx)

	v.mu.Lock()
	if v.discarded {
		v.mu.Unlock()
		v.logger.Debug("dropping stale result", "kind", v.kind.String(), "index", v.index)
		return ErrDiscarded
	}
	v.cancel = nil
	name := EventViewLoaded
	if err != nil {
		v.state = Failed
		v.err = err
		name = EventViewFailed
	} else {
		v.state = Loaded
		v.content = content
	}
	v.mu.Unlock()

	if err != nil {
		v.logger.Warn("item load failed", "kind", v.kind.String(), "index", v.index, "error", err)
	}
	v.bus.Emit(Event{Name: name, Kind: v.kind, Index: v.index})
	return err
}

func (v *ItemView) fetch(ctx context.Context) (Content, error) {
	payload, err := v.api.Fetch(ctx, v.kind, v.index)
	if err != nil {
		return nil, err
	}
	content, err := Decode(v.kind, payload)
	if err != nil {
		return nil, &FetchError{Kind: v.kind, Index: v.index, Err: err}
	}
	return content, nil
}

// discard marks the view dead and cancels its in-flight fetch.
func (v *ItemView) discard() {
	v.mu.Lock()
	v.discarded = true
	cancel := v.cancel
	v.cancel = nil
	v.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
