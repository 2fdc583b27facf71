package reversaar

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Session is the server's record of the logged-in user.
//
// On the wire it is a flat object: {"user":"alice","text":3,"array":1}.
// Keys that are not kind names are ignored; missing kinds count as zero.
type Session struct {
	User   string
	Counts map[Kind]int
}

// Count returns the number of committed items of kind k.
func (s Session) Count(k Kind) int {
	return s.Counts[k]
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	out := Session{User: s.User, Counts: make(map[Kind]int, len(s.Counts))}
	for k, n := range s.Counts {
		out.Counts[k] = n
	}
	return out
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	userRaw, ok := raw["user"]
	if !ok {
		return fmt.Errorf("%w: session record has no user", ErrMalformedResponse)
	}
	if err := json.Unmarshal(userRaw, &s.User); err != nil {
		return fmt.Errorf("%w: user: %v", ErrMalformedResponse, err)
	}
	s.Counts = make(map[Kind]int)
	for _, k := range Kinds() {
		v, ok := raw[k.String()]
		if !ok {
			continue
		}
		var n int
		if err := json.Unmarshal(v, &n); err != nil || n < 0 {
			return fmt.Errorf("%w: count for %s", ErrMalformedResponse, k)
		}
		s.Counts[k] = n
	}
	return nil
}

func (s Session) MarshalJSON() ([]byte, error) {
	m := map[string]any{"user": s.User}
	for k, n := range s.Counts {
		m[k.String()] = n
	}
	return json.Marshal(m)
}

// SessionStore holds the authenticated user and per-kind counts.
//
// Ownership: FetchInfo and Confirm write counts; Login and Logout write the
// user. It is the only source of truth for how many items of a kind exist.
type SessionStore struct {
	api    API
	bus    *Bus
	logger *slog.Logger

	mu      sync.RWMutex
	session *Session
}

// NewSessionStore creates a logged-out store.
func NewSessionStore(api API, bus *Bus, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = discardLogger()
	}
	return &SessionStore{api: api, bus: bus, logger: logger}
}

// LoggedIn reports whether a user is present.
func (s *SessionStore) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil
}

// User returns the logged-in user name.
func (s *SessionStore) User() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return "", false
	}
	return s.session.User, true
}

// Count returns counts[k], or 0 when the kind was never observed or nobody
// is logged in.
func (s *SessionStore) Count(k Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return 0
	}
	return s.session.Counts[k]
}

// Snapshot returns a copy of the current session, or nil when logged out.
func (s *SessionStore) Snapshot() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	c := s.session.Clone()
	return &c
}

// FetchInfo refreshes the session from the server. A nil result from Info
// means "not authenticated" and clears the session. The server-reported
// counts replace local ones, even when lower.
func (s *SessionStore) FetchInfo(ctx context.Context) error {
	info, err := s.api.Info(ctx)
	if err != nil {
		return fmt.Errorf("fetch info: %w", err)
	}
	s.replace(info)
	if info == nil {
		s.logger.Info("session not authenticated")
	} else {
		s.logger.Info("session refreshed", "user", info.User)
	}
	return nil
}

// Login authenticates and stores the returned session record. On failure
// the store is left as it was.
func (s *SessionStore) Login(ctx context.Context, username, password string) error {
	info, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.logger.Warn("login failed", "user", username, "error", err)
		return err
	}
	if info == nil {
		return fmt.Errorf("%w: empty login response", ErrMalformedResponse)
	}
	s.replace(info)
	s.logger.Info("logged in", "user", info.User)
	return nil
}

// Logout revokes the credential and clears local state.
func (s *SessionStore) Logout() error {
	if err := s.api.Logout(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.replace(nil)
	s.logger.Info("logged out")
	return nil
}

// Confirm folds a server-confirmed index into the count for k:
// counts[k] = max(counts[k], id+1). Counts never decrease here, so
// confirmations arriving out of order are harmless. Returns the new count.
func (s *SessionStore) Confirm(k Kind, id int) int {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		s.logger.Warn("confirmation without session", "kind", k.String(), "id", id)
		return 0
	}
	n := max(s.session.Counts[k], id+1)
	changed := n != s.session.Counts[k]
	s.session.Counts[k] = n
	s.mu.Unlock()

	if changed {
		s.logger.Debug("count advanced", "kind", k.String(), "count", n)
		s.bus.Emit(Event{Name: EventCountChanged, Kind: k, Index: id, Count: n})
	}
	return n
}

func (s *SessionStore) replace(info *Session) {
	s.mu.Lock()
	if info == nil {
		s.session = nil
	} else {
		c := info.Clone()
		s.session = &c
	}
	s.mu.Unlock()
	s.bus.Emit(Event{Name: EventSessionChanged})
}
