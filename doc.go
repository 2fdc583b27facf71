// Package reversaar is a client for a reversal storage service.
//
// An authenticated user submits items of three kinds (text, byte arrays and
// WAV audio). The service stores the reversed form of each item and gives it
// a sequential index per user and kind. Items are read back by kind and
// index.
//
// # Core Concepts
//
// Content is a closed set of payloads, one per Kind:
//
//	reversaar.Text("hello")
//	reversaar.ByteArray{72, 73}
//	reversaar.Audio(wavBytes)
//
// Encode and Decode translate between Content and the wire representation
// for each kind. Switches over Kind are exhaustive; an unknown kind is a
// programming error and panics.
//
// # Application State
//
// An App is created once around an API (normally a *Client) and hands out
// the stateful components:
//
//   - SessionStore holds the user and the number of items per kind. It is
//     the only source of truth for counts.
//   - Listing shows the entries of one kind and keeps at most one of them
//     expanded as an ItemView.
//   - Form stages a new item, validates it and submits it.
//   - LoginForm collects credentials and shows the inline login error.
//   - Navigation holds the selected view.
//
// State changes are announced on the App's event bus:
//
//	unsubscribe := app.Subscribe(func(e reversaar.Event) {
//	    if e.Name == reversaar.EventCountChanged {
//	        redraw(e.Kind)
//	    }
//	})
//	defer unsubscribe()
//
// # Counts
//
// A successful submission returns the new item's index. The SessionStore
// folds it in as max(count, id+1), so confirmations that arrive out of order
// never shrink a count. An explicit FetchInfo replaces local counts with the
// server's.
//
// # Item Views
//
// An ItemView loads its item at most once. Collapsing or re-expanding a
// listing discards the current view and cancels its fetch; a result that
// still arrives afterwards is dropped and cannot affect the view that
// replaced it.
//
//	view, _ := texts.Expand(2)
//	if err := view.Load(ctx); err != nil { ... }
//	content, _ := view.Content()
//
// # Rendering
//
// ItemView, Listing, Form and LoginForm implement Renderer and produce templ
// components. TestRender renders any of them to a string for assertions.
//
// # Errors
//
// Network-facing failures are typed: AuthError for a rejected login,
// SubmissionError for a rejected submission and FetchError for an item that
// could not be fetched or decoded. NoticeFor maps any of them to the message
// shown to the user.
package reversaar
