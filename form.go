package reversaar

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Draft is a snapshot of a form's staged input.
type Draft struct {
	Kind  Kind
	Input string
	File  *AudioFile
	Valid bool
}

// Form stages one new item of a kind and submits it.
//
// Text and ByteArray forms take typed input through SetInput; Audio forms
// take a file through SelectFile. Valid is a pure predicate over the staged
// input. A failed Send keeps the input so the user can retry.
type Form struct {
	kind    Kind
	api     API
	session *SessionStore
	bus     *Bus
	logger  *slog.Logger
	onSent  func(id int)

	mu    sync.Mutex
	input string
	file  *AudioFile
}

func newForm(k Kind, api API, session *SessionStore, bus *Bus, logger *slog.Logger) *Form {
	return &Form{kind: k, api: api, session: session, bus: bus, logger: logger}
}

func (f *Form) Kind() Kind { return f.kind }

// SetInput stages typed input. Audio forms reject it with ErrWrongKind.
func (f *Form) SetInput(s string) error {
	if f.kind == KindAudio {
		return fmt.Errorf("%w: %s form takes a file", ErrWrongKind, f.kind)
	}
	f.mu.Lock()
	f.input = s
	f.mu.Unlock()
	f.bus.Emit(Event{Name: EventDraftChanged, Kind: f.kind})
	return nil
}

// SelectFile stages an audio file; nil clears the selection. Text and
// ByteArray forms reject it with ErrWrongKind.
func (f *Form) SelectFile(file *AudioFile) error {
	if f.kind != KindAudio {
		return fmt.Errorf("%w: %s form takes typed input", ErrWrongKind, f.kind)
	}
	f.mu.Lock()
	f.file = file
	f.mu.Unlock()
	f.bus.Emit(Event{Name: EventDraftChanged, Kind: f.kind})
	return nil
}

// Draft returns the staged input and its validity.
func (f *Form) Draft() Draft {
	f.mu.Lock()
	d := Draft{Kind: f.kind, Input: f.input, File: f.file}
	f.mu.Unlock()
	_, err := stagedContent(d)
	d.Valid = err == nil
	return d
}

// Valid reports whether the staged input is syntactically acceptable.
func (f *Form) Valid() bool {
	return f.Draft().Valid
}

// Send submits the staged input. An invalid draft is not sent and yields
// ErrInvalidDraft; without a session nothing is sent and the result is
// ErrNotAuthenticated.
//
// On success the confirmed index is folded into the session count first,
// then the owning listing expands the new entry, then the draft is reset.
// On failure the draft is left untouched and the error is returned.
func (f *Form) Send(ctx context.Context) (int, error) {
	f.mu.Lock()
	d := Draft{Kind: f.kind, Input: f.input, File: f.file}
	f.mu.Unlock()

	content, err := stagedContent(d)
	if err != nil {
		return 0, ErrInvalidDraft
	}
	if !f.session.LoggedIn() {
		return 0, fmt.Errorf("%w: log in before sending %s", ErrNotAuthenticated, f.kind)
	}

	receipt, err := f.api.Submit(ctx, content)
	if err != nil {
		f.logger.Warn("submit failed", "kind", f.kind.String(), "error", err)
		return 0, err
	}

	count := f.session.Confirm(f.kind, receipt.ID)
	f.logger.Info("submitted", "kind", f.kind.String(), "id", receipt.ID, "count", count)
	if f.onSent != nil {
		f.onSent(receipt.ID)
	}

	f.mu.Lock()
	f.input = ""
	f.file = nil
	f.mu.Unlock()
	f.bus.Emit(Event{Name: EventDraftChanged, Kind: f.kind})
	return receipt.ID, nil
}

// stagedContent applies the kind's validation rule and builds the content
// to submit.
func stagedContent(d Draft) (Content, error) {
	switch d.Kind {
	case KindText:
		return Text(d.Input), nil
	case KindByteArray:
		b, err := ParseByteArray(d.Input)
		if err != nil {
			return nil, err
		}
		return b, nil
	case KindAudio:
		if d.File == nil {
			return nil, ErrInvalidDraft
		}
		return Audio(d.File.Data), nil
	}
	panic(fmt.Sprintf("reversaar: invalid kind %d", uint8(d.Kind)))
}
