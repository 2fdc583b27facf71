package reversaar

import (
	"context"
	"strings"
	"sync"
	"unicode"
)

// LoginForm stages credentials and holds the inline error of the last
// attempt.
type LoginForm struct {
	session *SessionStore

	mu       sync.Mutex
	username string
	password string
	notice   Notice
}

// SetUsername stages a user name. Whitespace is removed.
func (f *LoginForm) SetUsername(s string) {
	f.mu.Lock()
	f.username = stripWhitespace(s)
	f.mu.Unlock()
}

func (f *LoginForm) SetPassword(s string) {
	f.mu.Lock()
	f.password = s
	f.mu.Unlock()
}

func (f *LoginForm) Username() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.username
}

func (f *LoginForm) UsernameValid() bool {
	return len(f.Username()) >= 1
}

func (f *LoginForm) PasswordValid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.password) >= 1
}

// Notice returns the error shown next to the form, if any.
func (f *LoginForm) Notice() Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

// Submit logs in with the staged credentials. Invalid input is a no-op
// returning ErrInvalidDraft. A rejected login is kept as the form's notice
// and returned; a successful one clears the notice.
func (f *LoginForm) Submit(ctx context.Context) error {
	if !f.UsernameValid() || !f.PasswordValid() {
		return ErrInvalidDraft
	}
	f.mu.Lock()
	username, password := f.username, f.password
	f.mu.Unlock()

	err := f.session.Login(ctx, username, password)

	f.mu.Lock()
	f.notice = NoticeFor(err)
	if err == nil {
		f.password = ""
	}
	f.mu.Unlock()
	return err
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
