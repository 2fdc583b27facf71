package reversaar

import (
	"context"

	"github.com/a-h/templ"
)

// API is the network boundary consumed by the session store, item views and
// forms. *Client implements it against the real service.
//
// Every call is a fresh exchange. Implementations must not retry, back off,
// or cache.
type API interface {
	// Info returns the current session, or nil when the server reports the
	// request as unauthorized or otherwise unsuccessful. Only transport
	// failures and malformed responses are returned as errors.
	Info(ctx context.Context) (*Session, error)

	// Login authenticates and returns the session record. Rejected
	// credentials fail with *AuthError.
	Login(ctx context.Context, username, password string) (*Session, error)

	// Submit encodes c and stores it. Rejected writes fail with
	// *SubmissionError.
	Submit(ctx context.Context, c Content) (Receipt, error)

	// Fetch returns the raw payload of one stored item. Failures are
	// *FetchError.
	Fetch(ctx context.Context, k Kind, index int) ([]byte, error)

	// ItemURL returns the address an item can be streamed from.
	ItemURL(k Kind, index int) string

	// Logout revokes the session credential locally. No request is sent.
	Logout() error
}

// Receipt is the server confirmation of a stored item.
type Receipt struct {
	ID int `json:"id"`
}

// Renderer is implemented by everything the presentation layer can draw.
//
// Render reads current state and produces templ output without side
// effects; callers re-render after a change notification.
type Renderer interface {
	Render(ctx context.Context) templ.Component
}
